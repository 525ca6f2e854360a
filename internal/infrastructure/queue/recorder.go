package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/bloodlaac/fabricat/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Recorder routes end-of-game history records to a fixed set of workers using
// consistent hashing on the session code, so writes for the same session are
// applied in arrival order.
type Recorder struct {
	workers []chan ports.RecordSessionInput
	service ports.HistoryService
	log     zerolog.Logger
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(numWorkers int, service ports.HistoryService, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Recorder{
		workers: make([]chan ports.RecordSessionInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan ports.RecordSessionInput, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a finished session to the worker responsible for its code.
// Non-blocking up to channelBuffer capacity.
func (r *Recorder) Enqueue(input ports.RecordSessionInput) {
	r.workers[r.shardIndex(input.SessionCode)] <- input
}

// shardIndex maps a session code deterministically to a worker index.
func (r *Recorder) shardIndex(sessionCode string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionCode))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Recorder) runWorker(ctx context.Context, id int, ch <-chan ports.RecordSessionInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-ch:
			if !ok {
				return
			}
			if err := r.service.RecordSession(ctx, input); err != nil {
				r.log.Error().Err(err).
					Str("session_code", input.SessionCode).
					Int("worker_id", id).
					Msg("history record failed")
			}
		}
	}
}
