package ports

import (
	"context"

	"github.com/bloodlaac/fabricat/internal/core/domain"
)

// HistoryRepository persists finished sessions with their per-player stats.
type HistoryRepository interface {
	Record(ctx context.Context, session *domain.GameSession, stats []domain.PlayerStats) error
	// FindByUserAndCode returns the user's record for the given session code,
	// or domain.ErrStatsNotFound.
	FindByUserAndCode(ctx context.Context, userID, sessionCode string) (*domain.PlayerGameRecord, error)
	// FindRecentByUser returns up to limit records for the user, newest first.
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.PlayerGameRecord, error)
}
