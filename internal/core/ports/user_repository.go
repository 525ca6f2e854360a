package ports

import (
	"context"

	"github.com/bloodlaac/fabricat/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Insert must rely on a storage-level unique constraint for nickname
// uniqueness: two concurrent inserts of the same nickname yield exactly one
// success and one domain.ErrUserExists.
type UserRepository interface {
	FindByNickname(ctx context.Context, nickname string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
}
