package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rl1809/sweet-shop/internal/core/domain"
)

// UserRepository is the storage contract for accounts. Lookups return
// (nil, nil) when no user matches.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error

	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// Count returns the total number of registered users.
	Count(ctx context.Context) (int64, error)
}
