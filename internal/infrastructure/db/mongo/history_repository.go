package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bloodlaac/fabricat/internal/core/domain"
)

const collectionGameSessions = "game_sessions"

// sessionDocument stores a finished session with its player stats embedded,
// one document per session.
type sessionDocument struct {
	ID          string               `bson:"_id"`
	SessionCode string               `bson:"session_code"`
	FinishedAt  time.Time            `bson:"finished_at"`
	CreatedAt   time.Time            `bson:"created_at"`
	Players     []domain.PlayerStats `bson:"players"`
}

type HistoryRepository struct {
	col *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{col: db.Collection(collectionGameSessions)}
}

// Record inserts one session document with its embedded player stats.
func (r *HistoryRepository) Record(ctx context.Context, session *domain.GameSession, stats []domain.PlayerStats) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := sessionDocument{
		ID:          session.ID,
		SessionCode: session.SessionCode,
		FinishedAt:  session.FinishedAt,
		CreatedAt:   session.CreatedAt,
		Players:     stats,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert game session: %w", err)
	}
	return nil
}

// FindByUserAndCode returns the user's stats for the given session code.
// When the same code was reused, the most recently finished session wins.
func (r *HistoryRepository) FindByUserAndCode(ctx context.Context, userID, sessionCode string) (*domain.PlayerGameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"session_code": sessionCode, "players.user_id": userID}
	opts := options.FindOne().SetSort(bson.D{{Key: "finished_at", Value: -1}})

	var doc sessionDocument
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("find game session: %w", err)
	}

	record, ok := toRecord(&doc, userID)
	if !ok {
		return nil, domain.ErrStatsNotFound
	}
	return record, nil
}

// FindRecentByUser returns up to limit of the user's records, newest first.
func (r *HistoryRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.PlayerGameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"players.user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.PlayerGameRecord
	for cursor.Next(ctx) {
		var doc sessionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode game session: %w", err)
		}
		if record, ok := toRecord(&doc, userID); ok {
			records = append(records, *record)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent sessions: %w", err)
	}
	return records, nil
}

func toRecord(doc *sessionDocument, userID string) (*domain.PlayerGameRecord, bool) {
	for i := range doc.Players {
		if doc.Players[i].UserID == userID {
			return &domain.PlayerGameRecord{
				Session: domain.GameSession{
					ID:          doc.ID,
					SessionCode: doc.SessionCode,
					FinishedAt:  doc.FinishedAt,
					CreatedAt:   doc.CreatedAt,
				},
				Stats: doc.Players[i],
			}, true
		}
	}
	return nil, false
}
