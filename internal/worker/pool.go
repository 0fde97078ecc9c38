package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"integrafacturacion/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEmailFactura = "email_factura"

	// maxJobAttempts counts the first run; the job goes to the DLQ after it.
	maxJobAttempts = 3
)

// ErrSinReintento marks a failure that retrying cannot fix (bad payload).
var ErrSinReintento = errors.New("job no reintentable")

// Queue is the subset of *redis.Client the pool needs.
type Queue interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	q Queue
}

func NewDispatcher(q Queue) *Dispatcher {
	return &Dispatcher{q: q}
}

// EnqueueEmail pushes an invoice e-mail job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmailFactura, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.q.LPush(ctx, queue, encoded).Err()
}

// Pool runs the consumers. Handlers are keyed by job type.
type Pool struct {
	q        Queue
	handlers map[string]Handler
	queues   []string
	// pausa is how long a worker backs off after a queue error.
	pausa time.Duration
}

func NewPool(q Queue, handlers map[string]Handler) *Pool {
	return &Pool{q: q, handlers: handlers, queues: []string{QueueEmail}, pausa: time.Second}
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle workers
// cost nothing; they exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Waits up to 5s then loops to check ctx.
			result, err := p.q.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil && !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("queue unavailable, backing off")
				select {
				case <-ctx.Done():
				case <-time.After(p.pausa):
				}
				continue
			}
			if err != nil || len(result) < 2 {
				continue
			}
			p.Handle(ctx, result[0], result[1])
		}
	}
}

// Handle runs one raw job taken from queue. Failures are re-queued with the
// attempt count bumped until maxJobAttempts, then moved to the DLQ.
func (p *Pool) Handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		crudo, _ := json.Marshal(raw)
		enviarADeadLetter(ctx, p.q, queue, Job{Payload: crudo}, "envelope: "+err.Error())
		metrics.JobsProcessedTotal.WithLabelValues(queue, "dlq").Inc()
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		enviarADeadLetter(ctx, p.q, queue, job, "no handler for job type")
		metrics.JobsProcessedTotal.WithLabelValues(queue, "dlq").Inc()
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	switch {
	case err == nil:
		metrics.JobsProcessedTotal.WithLabelValues(queue, "ok").Inc()
	case errors.Is(err, ErrSinReintento) || job.Attempts >= maxJobAttempts:
		enviarADeadLetter(ctx, p.q, queue, job, err.Error())
		metrics.JobsProcessedTotal.WithLabelValues(queue, "dlq").Inc()
	default:
		log.Warn().Err(err).Str("queue", queue).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, re-queued")
		encoded, _ := json.Marshal(job)
		if err := p.q.LPush(ctx, queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("failed to re-queue job")
		}
		metrics.JobsProcessedTotal.WithLabelValues(queue, "retry").Inc()
	}
}
