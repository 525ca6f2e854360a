package domain

import "time"

// GameSession represents a finished game session.
type GameSession struct {
	ID          string    `bson:"_id"`
	SessionCode string    `bson:"session_code"`
	FinishedAt  time.Time `bson:"finished_at"`
	CreatedAt   time.Time `bson:"created_at"`
}

// PlayerStats holds the final state of one player slot in a finished session.
// UserID is empty for slots that were not controlled by a registered user.
type PlayerStats struct {
	UserID       string  `bson:"user_id,omitempty"`
	PlayerSlotID int     `bson:"player_slot_id"`
	Capital      float64 `bson:"capital"`
	Place        int     `bson:"place"`
	IsBankrupt   bool    `bson:"is_bankrupt"`
	IsTop1       bool    `bson:"is_top1"`
	HasDebt      bool    `bson:"has_debt"`
	TotalDebt    float64 `bson:"total_debt"`

	FactoriesBasic       int `bson:"factories_basic"`
	FactoriesAuto        int `bson:"factories_auto"`
	FactoriesBuildsBasic int `bson:"factories_builds_basic"`
	FactoriesBuildsAuto  int `bson:"factories_builds_auto"`
	FactoriesUpgrades    int `bson:"factories_upgrades"`
}

// PlayerGameRecord pairs a session with one player's stats in it.
type PlayerGameRecord struct {
	Session GameSession
	Stats   PlayerStats
}
