package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rl1809/sweet-shop/internal/core/domain"
)

// SweetRepository is the storage contract for the catalog. Lookups return
// (nil, nil) when no sweet matches, so callers can tell absence from failure.
type SweetRepository interface {
	// Insert persists a new sweet and fills in its assigned ID.
	Insert(ctx context.Context, sweet *domain.Sweet) error

	// FindByID retrieves a sweet by ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Sweet, error)

	// FindAll returns the whole catalog, newest first.
	FindAll(ctx context.Context) ([]domain.Sweet, error)

	// Search returns sweets matching the filter.
	Search(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error)

	// Update applies a partial update and returns the updated sweet.
	Update(ctx context.Context, id primitive.ObjectID, patch domain.SweetPatch) (*domain.Sweet, error)

	// Delete removes a sweet, reporting whether it existed.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)

	// DecrementStock atomically applies "stock -= quantity where stock >= quantity"
	// as a single conditional update. It returns (nil, nil) when no document
	// matched, which means the sweet is missing or its stock is insufficient;
	// the caller must re-fetch to tell which.
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (*domain.Sweet, error)

	// IncrementStock atomically adds quantity to stock and returns the updated
	// sweet, or (nil, nil) if the sweet does not exist.
	IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (*domain.Sweet, error)
}
