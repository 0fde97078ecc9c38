package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memQueue struct {
	mu    sync.Mutex
	lists map[string][]string
}

var _ Queue = (*memQueue)(nil)

func newMemQueue() *memQueue { return &memQueue{lists: map[string][]string{}} }

func (q *memQueue) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, v := range values {
		var s string
		switch t := v.(type) {
		case []byte:
			s = string(t)
		case string:
			s = t
		}
		q.lists[key] = append([]string{s}, q.lists[key]...)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(q.lists[key])))
	return cmd
}

func (q *memQueue) BRPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	cmd := redis.NewStringSliceCmd(ctx)
	for _, k := range keys {
		if l := q.lists[k]; len(l) > 0 {
			v := l[len(l)-1]
			q.lists[k] = l[:len(l)-1]
			cmd.SetVal([]string{k, v})
			return cmd
		}
	}
	cmd.SetErr(redis.Nil)
	return cmd
}

func (q *memQueue) LLen(ctx context.Context, key string) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(q.lists[key])))
	return cmd
}

func (q *memQueue) pop(t *testing.T, key string) string {
	t.Helper()
	res, err := q.BRPop(context.Background(), 0, key).Result()
	require.NoError(t, err)
	return res[1]
}

type stubSender struct {
	configurado bool
	err         error
	enviados    []EmailJobPayload
}

func (s *stubSender) Configurado() bool { return s.configurado }

func (s *stubSender) SendDocumento(to, subject, body, pdfPath string) error {
	if s.err != nil {
		return s.err
	}
	s.enviados = append(s.enviados, EmailJobPayload{ToEmail: to, Subject: subject, Body: body, PDFPath: pdfPath})
	return nil
}

func TestDispatcher_EnqueueEmail(t *testing.T) {
	q := newMemQueue()
	d := NewDispatcher(q)
	require.NoError(t, d.EnqueueEmail(context.Background(), EmailJobPayload{ToEmail: "a@b.ec", PDFPath: "/tmp/f.pdf"}))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(q.pop(t, QueueEmail)), &job))
	assert.Equal(t, JobEmailFactura, job.Type)
	assert.Equal(t, 0, job.Attempts)

	var p EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, "a@b.ec", p.ToEmail)
}

func TestPool_SendsEmail(t *testing.T) {
	q := newMemQueue()
	sender := &stubSender{configurado: true}
	pool := NewPool(q, map[string]Handler{JobEmailFactura: NewEmailWorker(sender)})
	require.NoError(t, NewDispatcher(q).EnqueueEmail(context.Background(), EmailJobPayload{ToEmail: "c@d.ec", Subject: "Factura"}))

	pool.Handle(context.Background(), QueueEmail, q.pop(t, QueueEmail))

	require.Len(t, sender.enviados, 1)
	assert.Equal(t, "c@d.ec", sender.enviados[0].ToEmail)
	n, _ := PendientesDeadLetter(context.Background(), q, QueueEmail)
	assert.Zero(t, n)
}

func TestPool_RetriesThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	q := newMemQueue()
	sender := &stubSender{configurado: true, err: errors.New("smtp down")}
	pool := NewPool(q, map[string]Handler{JobEmailFactura: NewEmailWorker(sender)})
	require.NoError(t, NewDispatcher(q).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "x@y.ec"}))

	for i := 1; i < maxJobAttempts; i++ {
		pool.Handle(ctx, QueueEmail, q.pop(t, QueueEmail))
		var job Job
		require.NoError(t, json.Unmarshal([]byte(q.lists[QueueEmail][0]), &job))
		assert.Equal(t, i, job.Attempts)
	}
	pool.Handle(ctx, QueueEmail, q.pop(t, QueueEmail))

	assert.Empty(t, q.lists[QueueEmail])
	var entry DeadLetter
	require.NoError(t, json.Unmarshal([]byte(q.pop(t, DeadLetterPrefix+QueueEmail)), &entry))
	assert.Equal(t, QueueEmail, entry.Cola)
	assert.Equal(t, maxJobAttempts, entry.Job.Attempts)
	assert.Contains(t, entry.Motivo, "smtp down")
}

func TestPool_BadPayloadGoesStraightToDLQ(t *testing.T) {
	ctx := context.Background()
	q := newMemQueue()
	pool := NewPool(q, map[string]Handler{JobEmailFactura: NewEmailWorker(&stubSender{configurado: true})})

	raw, _ := json.Marshal(Job{Type: JobEmailFactura, Payload: json.RawMessage(`{"to_email":""}`)})
	pool.Handle(ctx, QueueEmail, string(raw))

	assert.Empty(t, q.lists[QueueEmail])
	n, err := PendientesDeadLetter(ctx, q, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEmailWorker_SkipsWithoutSMTP(t *testing.T) {
	sender := &stubSender{configurado: false}
	raw, _ := json.Marshal(EmailJobPayload{ToEmail: "a@b.ec"})
	assert.NoError(t, NewEmailWorker(sender).Process(context.Background(), raw))
	assert.Empty(t, sender.enviados)
}

// caidaQueue fails every BRPop the way a client does when Redis is down.
type caidaQueue struct {
	*memQueue
	llamadas atomic.Int32
}

func (q *caidaQueue) BRPop(ctx context.Context, _ time.Duration, _ ...string) *redis.StringSliceCmd {
	q.llamadas.Add(1)
	cmd := redis.NewStringSliceCmd(ctx)
	cmd.SetErr(errors.New("dial tcp: connection refused"))
	return cmd
}

func TestPool_BacksOffWhileQueueIsDown(t *testing.T) {
	q := &caidaQueue{memQueue: newMemQueue()}
	pool := NewPool(q, nil)
	pool.pausa = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx, 1)
	time.Sleep(120 * time.Millisecond)
	cancel()

	n := q.llamadas.Load()
	assert.GreaterOrEqual(t, n, int32(1))
	assert.LessOrEqual(t, n, int32(4))
}
