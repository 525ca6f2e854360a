package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories depend on. The unique
// nickname index is load-bearing: it is what makes concurrent registrations
// of the same nickname yield exactly one success.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "nickname", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure users indexes: %w", err)
	}

	_, err = db.Collection(collectionGameSessions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_code", Value: 1}}},
		{Keys: bson.D{{Key: "players.user_id", Value: 1}, {Key: "finished_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure game_sessions indexes: %w", err)
	}
	return nil
}
