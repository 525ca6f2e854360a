package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bloodlaac/fabricat/internal/core/ports"
)

type stubHistoryService struct {
	mu       sync.Mutex
	recorded []ports.RecordSessionInput
	done     chan struct{}
	want     int
}

func newStubHistoryService(want int) *stubHistoryService {
	return &stubHistoryService{done: make(chan struct{}), want: want}
}

func (s *stubHistoryService) RecordSession(ctx context.Context, input ports.RecordSessionInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, input)
	if len(s.recorded) == s.want {
		close(s.done)
	}
	return nil
}

func (s *stubHistoryService) StatsForSession(ctx context.Context, userID, sessionCode string) (*ports.PlayerGameStats, error) {
	return nil, nil
}

func (s *stubHistoryService) RecentGames(ctx context.Context, userID string, limit int) ([]ports.PlayerGameStats, error) {
	return nil, nil
}

func (s *stubHistoryService) wait(t *testing.T) []ports.RecordSessionInput {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d records", s.want)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.RecordSessionInput(nil), s.recorded...)
}

func TestRecorder_ProcessesEnqueuedSessions(t *testing.T) {
	stub := newStubHistoryService(3)
	recorder := NewRecorder(2, stub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recorder.Start(ctx)

	for _, code := range []string{"GAME1", "GAME2", "GAME3"} {
		recorder.Enqueue(ports.RecordSessionInput{SessionCode: code})
	}

	recorded := stub.wait(t)
	seen := make(map[string]bool, len(recorded))
	for _, r := range recorded {
		seen[r.SessionCode] = true
	}
	for _, code := range []string{"GAME1", "GAME2", "GAME3"} {
		if !seen[code] {
			t.Fatalf("session %s was never recorded", code)
		}
	}
}

func TestRecorder_SameCodeKeepsArrivalOrder(t *testing.T) {
	const n = 20

	stub := newStubHistoryService(n)
	recorder := NewRecorder(4, stub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recorder.Start(ctx)

	for i := 0; i < n; i++ {
		recorder.Enqueue(ports.RecordSessionInput{
			SessionCode: "GAME42",
			Players:     []ports.PlayerStatsInput{{PlayerSlotID: i}},
		})
	}

	recorded := stub.wait(t)
	for i, r := range recorded {
		if r.Players[0].PlayerSlotID != i {
			t.Fatalf("record %d out of order: slot %d", i, r.Players[0].PlayerSlotID)
		}
	}
}

func TestRecorder_ShardIsDeterministic(t *testing.T) {
	recorder := NewRecorder(4, newStubHistoryService(0), zerolog.Nop())

	for _, code := range []string{"GAME1", "GAME2", "", "a-very-long-session-code"} {
		first := recorder.shardIndex(code)
		for i := 0; i < 10; i++ {
			if got := recorder.shardIndex(code); got != first {
				t.Fatalf("shard for %q changed: %d then %d", code, first, got)
			}
		}
		if first < 0 || first >= 4 {
			t.Fatalf("shard for %q out of range: %d", code, first)
		}
	}
}

func TestRecorder_DefaultWorkerCount(t *testing.T) {
	recorder := NewRecorder(0, newStubHistoryService(0), zerolog.Nop())
	if len(recorder.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(recorder.workers))
	}
}
