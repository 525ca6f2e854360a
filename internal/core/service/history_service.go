package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlaac/fabricat/internal/api/metrics"
	"github.com/bloodlaac/fabricat/internal/core/domain"
	"github.com/bloodlaac/fabricat/internal/core/ports"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// RecentGamesCache abstracts the read cache for recent-games queries (Redis).
type RecentGamesCache interface {
	Get(ctx context.Context, userID string, limit int) ([]ports.PlayerGameStats, bool)
	Set(ctx context.Context, userID string, limit int, items []ports.PlayerGameStats) error
	Invalidate(ctx context.Context, userID string) error
}

type historyService struct {
	repo  ports.HistoryRepository
	cache RecentGamesCache
	log   zerolog.Logger
}

// NewHistoryService returns a HistoryService implementation. cache may be nil
// when no read cache is wired.
func NewHistoryService(repo ports.HistoryRepository, cache RecentGamesCache, log zerolog.Logger) ports.HistoryService {
	return &historyService{repo: repo, cache: cache, log: log}
}

// RecordSession persists a finished session with its per-player stats and
// invalidates the recent-games cache of every registered player involved.
func (s *historyService) RecordSession(ctx context.Context, input ports.RecordSessionInput) error {
	if input.SessionCode == "" {
		return fmt.Errorf("%w: session code is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	finished := input.FinishedAt
	if finished.IsZero() {
		finished = now
	}

	session := &domain.GameSession{
		ID:          uuid.NewString(),
		SessionCode: input.SessionCode,
		FinishedAt:  finished,
		CreatedAt:   now,
	}

	stats := make([]domain.PlayerStats, 0, len(input.Players))
	for _, p := range input.Players {
		stats = append(stats, domain.PlayerStats{
			UserID:               p.UserID,
			PlayerSlotID:         p.PlayerSlotID,
			Capital:              p.Capital,
			Place:                p.Place,
			IsBankrupt:           p.IsBankrupt,
			IsTop1:               p.IsTop1,
			HasDebt:              p.HasDebt,
			TotalDebt:            p.TotalDebt,
			FactoriesBasic:       p.FactoriesBasic,
			FactoriesAuto:        p.FactoriesAuto,
			FactoriesBuildsBasic: p.FactoriesBuildsBasic,
			FactoriesBuildsAuto:  p.FactoriesBuildsAuto,
			FactoriesUpgrades:    p.FactoriesUpgrades,
		})
	}

	if err := s.repo.Record(ctx, session, stats); err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	if s.cache != nil {
		for _, p := range input.Players {
			if p.UserID == "" {
				continue
			}
			if err := s.cache.Invalidate(ctx, p.UserID); err != nil {
				s.log.Warn().Err(err).Str("user_id", p.UserID).Msg("failed to invalidate recent-games cache")
			}
		}
	}

	s.log.Info().
		Str("session_code", input.SessionCode).
		Int("players", len(input.Players)).
		Msg("game session recorded")

	return nil
}

// StatsForSession returns the user's stats for one session code.
func (s *historyService) StatsForSession(ctx context.Context, userID, sessionCode string) (*ports.PlayerGameStats, error) {
	record, err := s.repo.FindByUserAndCode(ctx, userID, sessionCode)
	if err != nil {
		return nil, err
	}
	flat := flatten(record)
	return &flat, nil
}

// RecentGames returns the user's most recent games, newest first. Results are
// served from the cache when warm; a limit outside [1, 100] falls back to the
// default of 10.
func (s *historyService) RecentGames(ctx context.Context, userID string, limit int) ([]ports.PlayerGameStats, error) {
	if limit < 1 || limit > maxRecentLimit {
		limit = defaultRecentLimit
	}

	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, userID, limit); ok {
			metrics.HistoryCacheTotal.WithLabelValues("hit").Inc()
			return items, nil
		}
		metrics.HistoryCacheTotal.WithLabelValues("miss").Inc()
	}

	records, err := s.repo.FindRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]ports.PlayerGameStats, 0, len(records))
	for i := range records {
		items = append(items, flatten(&records[i]))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, limit, items); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to populate recent-games cache")
		}
	}

	return items, nil
}

func flatten(r *domain.PlayerGameRecord) ports.PlayerGameStats {
	return ports.PlayerGameStats{
		SessionCode:          r.Session.SessionCode,
		FinishedAt:           r.Session.FinishedAt,
		Capital:              r.Stats.Capital,
		Place:                r.Stats.Place,
		IsBankrupt:           r.Stats.IsBankrupt,
		IsTop1:               r.Stats.IsTop1,
		HasDebt:              r.Stats.HasDebt,
		TotalDebt:            r.Stats.TotalDebt,
		FactoriesBasic:       r.Stats.FactoriesBasic,
		FactoriesAuto:        r.Stats.FactoriesAuto,
		FactoriesBuildsBasic: r.Stats.FactoriesBuildsBasic,
		FactoriesBuildsAuto:  r.Stats.FactoriesBuildsAuto,
		FactoriesUpgrades:    r.Stats.FactoriesUpgrades,
	}
}
