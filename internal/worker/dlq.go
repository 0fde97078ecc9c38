package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// DeadLetterPrefix namespaces the per-queue dead-letter lists: dlq:jobs:email.
const DeadLetterPrefix = "dlq:"

// DeadLetter is a job the pool gave up on, kept for manual replay.
type DeadLetter struct {
	Cola      string    `json:"cola"`
	Job       Job       `json:"job"`
	Motivo    string    `json:"motivo"`
	FallidoEn time.Time `json:"fallido_en"`
}

func deadLetterKey(queue string) string { return DeadLetterPrefix + queue }

// enviarADeadLetter never fails the caller: a lost dead letter is only logged.
func enviarADeadLetter(ctx context.Context, q Queue, queue string, job Job, motivo string) {
	data, err := json.Marshal(DeadLetter{Cola: queue, Job: job, Motivo: motivo, FallidoEn: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}
	if err := q.LPush(ctx, deadLetterKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Str("motivo", motivo).
		Msg("job enviado a dead letter")
}

// PendientesDeadLetter is reported by the health endpoint.
func PendientesDeadLetter(ctx context.Context, q Queue, queue string) (int64, error) {
	return q.LLen(ctx, deadLetterKey(queue)).Result()
}
