package ports

import (
	"context"
	"time"
)

// PlayerStatsInput carries one player's final stats for recording.
type PlayerStatsInput struct {
	UserID       string
	PlayerSlotID int
	Capital      float64
	Place        int
	IsBankrupt   bool
	IsTop1       bool
	HasDebt      bool
	TotalDebt    float64

	FactoriesBasic       int
	FactoriesAuto        int
	FactoriesBuildsBasic int
	FactoriesBuildsAuto  int
	FactoriesUpgrades    int
}

// RecordSessionInput describes a finished session to persist.
type RecordSessionInput struct {
	SessionCode string
	FinishedAt  time.Time
	Players     []PlayerStatsInput
}

// PlayerGameStats is the flattened view of a player's result in one session,
// as served to the history API.
type PlayerGameStats struct {
	SessionCode string    `json:"session_code"`
	FinishedAt  time.Time `json:"finished_at"`
	Capital     float64   `json:"capital"`
	Place       int       `json:"place"`
	IsBankrupt  bool      `json:"is_bankrupt"`
	IsTop1      bool      `json:"is_top1"`
	HasDebt     bool      `json:"has_debt"`
	TotalDebt   float64   `json:"total_debt"`

	FactoriesBasic       int `json:"factories_basic"`
	FactoriesAuto        int `json:"factories_auto"`
	FactoriesBuildsBasic int `json:"factories_builds_basic"`
	FactoriesBuildsAuto  int `json:"factories_builds_auto"`
	FactoriesUpgrades    int `json:"factories_upgrades"`
}

// HistoryService defines game-history use cases.
type HistoryService interface {
	RecordSession(ctx context.Context, input RecordSessionInput) error
	StatsForSession(ctx context.Context, userID, sessionCode string) (*PlayerGameStats, error)
	RecentGames(ctx context.Context, userID string, limit int) ([]PlayerGameStats, error)
}
