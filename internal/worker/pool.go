package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// QueueKey is the Redis list the HTTP layer pushes jobs onto.
	QueueKey = "jobs:orderdispatch"
	// DeadLetterKey receives jobs that exhausted their attempts.
	DeadLetterKey = "dlq:" + QueueKey

	maxAttempts = 3
	popTimeout  = 5 * time.Second
)

// Job is the envelope stored on the queue.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// HandlerFunc processes one job payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Pool runs N goroutines blocking-popping jobs off a Redis list and
// dispatching them to registered handlers. Failed jobs are retried with
// a delay; after maxAttempts they land on the dead-letter list.
type Pool struct {
	rdb      *redis.Client
	size     int
	handlers map[string]HandlerFunc
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		rdb:      rdb,
		size:     size,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds a handler to a job type. Call before Start.
func (p *Pool) Register(jobType string, h HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[jobType] = h
}

// Enqueue serializes the payload and pushes a job onto the queue.
func (p *Pool) Enqueue(ctx context.Context, jobType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("worker: marshal payload: %w", err)
	}
	job := Job{
		ID:         fmt.Sprintf("%s-%d", jobType, time.Now().UnixNano()),
		Type:       jobType,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("worker: marshal job: %w", err)
	}
	return p.rdb.LPush(ctx, QueueKey, data).Err()
}

// Start launches the worker goroutines. They exit when ctx is canceled;
// Wait blocks until all of them have drained.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log.Info().Int("worker", id).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker stopped")
			return
		default:
		}

		res, err := p.rdb.BRPop(ctx, popTimeout, QueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}
		if len(res) < 2 {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			log.Error().Err(err).Int("worker", id).Msg("malformed job dropped")
			continue
		}
		p.process(ctx, id, &job)
	}
}

func (p *Pool) process(ctx context.Context, workerID int, job *Job) {
	p.mu.RLock()
	h, ok := p.handlers[job.Type]
	p.mu.RUnlock()
	if !ok {
		log.Error().Str("job_id", job.ID).Str("type", job.Type).Msg("no handler for job type")
		p.toDeadLetter(ctx, job)
		return
	}

	job.Attempts++
	if err := h(ctx, job.Payload); err != nil {
		log.Warn().Err(err).Str("job_id", job.ID).Int("attempt", job.Attempts).Msg("job failed")
		if job.Attempts >= maxAttempts {
			p.toDeadLetter(ctx, job)
			return
		}
		// Requeue at the tail after a short backoff.
		time.Sleep(time.Duration(job.Attempts) * time.Second)
		if data, mErr := json.Marshal(job); mErr == nil {
			if rErr := p.rdb.LPush(ctx, QueueKey, data).Err(); rErr != nil {
				log.Error().Err(rErr).Str("job_id", job.ID).Msg("requeue failed")
			}
		}
		return
	}
	log.Info().Str("job_id", job.ID).Str("type", job.Type).Int("worker", workerID).Msg("job done")
}

func (p *Pool) toDeadLetter(ctx context.Context, job *Job) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := p.rdb.LPush(ctx, DeadLetterKey, data).Err(); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("dead-letter push failed")
		return
	}
	log.Error().Str("job_id", job.ID).Str("type", job.Type).Msg("job moved to dead-letter queue")
}
