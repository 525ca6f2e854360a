package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/bloodlaac/fabricat/internal/api/metrics"
	"github.com/bloodlaac/fabricat/internal/core/domain"
	"github.com/bloodlaac/fabricat/internal/core/ports"
)

type stubHistoryRepo struct {
	recorded      []domain.GameSession
	recordedStats [][]domain.PlayerStats
	byUserAndCode map[string]domain.PlayerGameRecord
	recent        []domain.PlayerGameRecord
	lastLimit     int
	findCalls     int
}

func (r *stubHistoryRepo) Record(_ context.Context, session *domain.GameSession, stats []domain.PlayerStats) error {
	r.recorded = append(r.recorded, *session)
	r.recordedStats = append(r.recordedStats, stats)
	return nil
}

func (r *stubHistoryRepo) FindByUserAndCode(_ context.Context, userID, sessionCode string) (*domain.PlayerGameRecord, error) {
	if rec, ok := r.byUserAndCode[userID+"/"+sessionCode]; ok {
		return &rec, nil
	}
	return nil, domain.ErrStatsNotFound
}

func (r *stubHistoryRepo) FindRecentByUser(_ context.Context, _ string, limit int) ([]domain.PlayerGameRecord, error) {
	r.findCalls++
	r.lastLimit = limit
	return r.recent, nil
}

type stubCache struct {
	store       map[string][]ports.PlayerGameStats
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string][]ports.PlayerGameStats)}
}

func (c *stubCache) Get(_ context.Context, userID string, limit int) ([]ports.PlayerGameStats, bool) {
	items, ok := c.store[cacheKey(userID, limit)]
	return items, ok
}

func (c *stubCache) Set(_ context.Context, userID string, limit int, items []ports.PlayerGameStats) error {
	c.store[cacheKey(userID, limit)] = items
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, userID string) error {
	c.invalidated = append(c.invalidated, userID)
	for k := range c.store {
		delete(c.store, k)
	}
	return nil
}

func cacheKey(userID string, limit int) string {
	return fmt.Sprintf("%s/%d", userID, limit)
}

func sampleRecord(code string, place int) domain.PlayerGameRecord {
	return domain.PlayerGameRecord{
		Session: domain.GameSession{
			ID:          "session-" + code,
			SessionCode: code,
			FinishedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		},
		Stats: domain.PlayerStats{
			UserID:         "user-1",
			PlayerSlotID:   2,
			Capital:        1500.5,
			Place:          place,
			IsTop1:         place == 1,
			HasDebt:        true,
			TotalDebt:      300,
			FactoriesBasic: 4,
		},
	}
}

func TestHistoryService_RecordSession(t *testing.T) {
	repo := &stubHistoryRepo{}
	cache := newStubCache()
	svc := NewHistoryService(repo, cache, zerolog.Nop())

	input := ports.RecordSessionInput{
		SessionCode: "abc12345",
		FinishedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Players: []ports.PlayerStatsInput{
			{UserID: "user-1", PlayerSlotID: 0, Capital: 2000, Place: 1, IsTop1: true},
			{PlayerSlotID: 1, Capital: -50, Place: 2, IsBankrupt: true}, // anonymous slot
		},
	}

	if err := svc.RecordSession(context.Background(), input); err != nil {
		t.Fatalf("RecordSession: %v", err)
	}

	if len(repo.recorded) != 1 {
		t.Fatalf("expected one recorded session, got %d", len(repo.recorded))
	}
	session := repo.recorded[0]
	if session.ID == "" {
		t.Fatalf("expected generated session id")
	}
	if session.SessionCode != "abc12345" || !session.FinishedAt.Equal(input.FinishedAt) {
		t.Fatalf("unexpected session: %+v", session)
	}
	if len(repo.recordedStats[0]) != 2 {
		t.Fatalf("expected two stats rows, got %d", len(repo.recordedStats[0]))
	}

	// Only the registered player's cache gets invalidated.
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "user-1" {
		t.Fatalf("unexpected cache invalidations: %v", cache.invalidated)
	}
}

func TestHistoryService_RecordSession_DefaultsFinishedAt(t *testing.T) {
	repo := &stubHistoryRepo{}
	svc := NewHistoryService(repo, nil, zerolog.Nop())

	before := time.Now().UTC()
	if err := svc.RecordSession(context.Background(), ports.RecordSessionInput{SessionCode: "xyz"}); err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	finished := repo.recorded[0].FinishedAt
	if finished.Before(before) || finished.After(time.Now().UTC()) {
		t.Fatalf("expected finished_at to default to now, got %v", finished)
	}
}

func TestHistoryService_RecordSession_RequiresCode(t *testing.T) {
	svc := NewHistoryService(&stubHistoryRepo{}, nil, zerolog.Nop())

	if err := svc.RecordSession(context.Background(), ports.RecordSessionInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestHistoryService_StatsForSession(t *testing.T) {
	record := sampleRecord("abc12345", 3)
	repo := &stubHistoryRepo{byUserAndCode: map[string]domain.PlayerGameRecord{
		"user-1/abc12345": record,
	}}
	svc := NewHistoryService(repo, nil, zerolog.Nop())

	stats, err := svc.StatsForSession(context.Background(), "user-1", "abc12345")
	if err != nil {
		t.Fatalf("StatsForSession: %v", err)
	}
	if stats.SessionCode != "abc12345" || stats.Place != 3 || stats.Capital != 1500.5 {
		t.Fatalf("unexpected flattened stats: %+v", stats)
	}
	if !stats.FinishedAt.Equal(record.Session.FinishedAt) {
		t.Fatalf("finished_at not carried over")
	}

	if _, err := svc.StatsForSession(context.Background(), "user-1", "missing"); !errors.Is(err, domain.ErrStatsNotFound) {
		t.Fatalf("expected ErrStatsNotFound, got %v", err)
	}
}

func TestHistoryService_RecentGames_CacheMissThenHit(t *testing.T) {
	repo := &stubHistoryRepo{recent: []domain.PlayerGameRecord{
		sampleRecord("code-2", 1),
		sampleRecord("code-1", 4),
	}}
	cache := newStubCache()
	svc := NewHistoryService(repo, cache, zerolog.Nop())

	items, err := svc.RecentGames(context.Background(), "user-1", 5)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(items) != 2 || items[0].SessionCode != "code-2" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if repo.findCalls != 1 || repo.lastLimit != 5 {
		t.Fatalf("expected one repo call with limit 5, got %d/%d", repo.findCalls, repo.lastLimit)
	}

	// Second call is served from cache.
	if _, err := svc.RecentGames(context.Background(), "user-1", 5); err != nil {
		t.Fatalf("RecentGames (cached): %v", err)
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected cache hit to skip the repository, got %d calls", repo.findCalls)
	}
}

func TestHistoryService_RecentGames_CacheMetrics(t *testing.T) {
	repo := &stubHistoryRepo{recent: []domain.PlayerGameRecord{sampleRecord("code-1", 1)}}
	svc := NewHistoryService(repo, newStubCache(), zerolog.Nop())

	hitsBefore := testutil.ToFloat64(metrics.HistoryCacheTotal.WithLabelValues("hit"))
	missesBefore := testutil.ToFloat64(metrics.HistoryCacheTotal.WithLabelValues("miss"))

	// Cold cache, then warm.
	for i := 0; i < 2; i++ {
		if _, err := svc.RecentGames(context.Background(), "user-1", 5); err != nil {
			t.Fatalf("RecentGames: %v", err)
		}
	}

	if got := testutil.ToFloat64(metrics.HistoryCacheTotal.WithLabelValues("miss")) - missesBefore; got != 1 {
		t.Fatalf("expected 1 cache miss counted, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HistoryCacheTotal.WithLabelValues("hit")) - hitsBefore; got != 1 {
		t.Fatalf("expected 1 cache hit counted, got %v", got)
	}
}

func TestHistoryService_RecentGames_LimitFallback(t *testing.T) {
	repo := &stubHistoryRepo{}
	svc := NewHistoryService(repo, nil, zerolog.Nop())

	for _, bad := range []int{0, -3, 101} {
		if _, err := svc.RecentGames(context.Background(), "user-1", bad); err != nil {
			t.Fatalf("RecentGames(%d): %v", bad, err)
		}
		if repo.lastLimit != 10 {
			t.Fatalf("limit %d: expected fallback to 10, repo saw %d", bad, repo.lastLimit)
		}
	}
}
