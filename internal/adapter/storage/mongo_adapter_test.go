package storage

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rl1809/sweet-shop/internal/core/domain"
)

func getMongoDB(t *testing.T) *mongo.Database {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return client.Database("sweetshop_test")
}

func insertTestSweet(t *testing.T, repo *MongoSweetRepository, stock int) *domain.Sweet {
	t.Helper()
	now := time.Now().UTC()
	sweet := &domain.Sweet{
		Name:      "Test Sweet",
		Category:  domain.CategoryMilkSweets,
		Price:     5.99,
		Stock:     stock,
		Image:     domain.DefaultImage,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Insert(context.Background(), sweet); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	t.Cleanup(func() {
		_, _ = repo.Delete(context.Background(), sweet.ID)
	})
	return sweet
}

func TestDecrementStock_Success(t *testing.T) {
	repo := NewMongoSweetRepository(getMongoDB(t))
	ctx := context.Background()

	sweet := insertTestSweet(t, repo, 10)

	updated, err := repo.DecrementStock(ctx, sweet.ID, 3)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a match")
	}
	if updated.Stock != 7 {
		t.Errorf("expected stock 7, got %d", updated.Stock)
	}
}

func TestDecrementStock_Insufficient(t *testing.T) {
	repo := NewMongoSweetRepository(getMongoDB(t))
	ctx := context.Background()

	sweet := insertTestSweet(t, repo, 5)

	updated, err := repo.DecrementStock(ctx, sweet.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != nil {
		t.Error("expected no match for insufficient stock")
	}

	// Verify stock unchanged
	current, err := repo.FindByID(ctx, sweet.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if current.Stock != 5 {
		t.Errorf("expected stock 5, got %d", current.Stock)
	}
}

func TestDecrementStock_NotFound(t *testing.T) {
	repo := NewMongoSweetRepository(getMongoDB(t))

	updated, err := repo.DecrementStock(context.Background(), primitive.NewObjectID(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != nil {
		t.Error("expected no match for nonexistent sweet")
	}
}

func TestDecrementStock_Concurrent(t *testing.T) {
	repo := NewMongoSweetRepository(getMongoDB(t))
	ctx := context.Background()

	initialStock := 20
	totalRequests := 50
	sweet := insertTestSweet(t, repo, initialStock)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			updated, err := repo.DecrementStock(ctx, sweet.ID, 1)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if updated != nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}

	current, err := repo.FindByID(ctx, sweet.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if current.Stock != 0 {
		t.Errorf("expected stock 0, got %d", current.Stock)
	}
}

func TestIncrementStock(t *testing.T) {
	repo := NewMongoSweetRepository(getMongoDB(t))

	sweet := insertTestSweet(t, repo, 10)

	updated, err := repo.IncrementStock(context.Background(), sweet.ID, 5)
	if err != nil {
		t.Fatalf("IncrementStock failed: %v", err)
	}
	if updated.Stock != 15 {
		t.Errorf("expected stock 15, got %d", updated.Stock)
	}
}

func TestUpdate_Partial(t *testing.T) {
	repo := NewMongoSweetRepository(getMongoDB(t))

	sweet := insertTestSweet(t, repo, 10)

	price := 9.50
	updated, err := repo.Update(context.Background(), sweet.ID, domain.SweetPatch{Price: &price})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Price != 9.50 {
		t.Errorf("expected price 9.50, got %v", updated.Price)
	}
	if updated.Stock != 10 {
		t.Errorf("stock should be untouched, got %d", updated.Stock)
	}
}

func TestSearch_PriceRange(t *testing.T) {
	db := getMongoDB(t)
	repo := NewMongoSweetRepository(db)
	ctx := context.Background()

	cheap := insertTestSweet(t, repo, 5)
	_, err := repo.Update(ctx, cheap.ID, domain.SweetPatch{Price: floatPtr(1.50)})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	pricey := insertTestSweet(t, repo, 5)
	_, err = repo.Update(ctx, pricey.ID, domain.SweetPatch{Price: floatPtr(300)})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	min, max := 100.0, 400.0
	results, err := repo.Search(ctx, domain.SweetFilter{MinPrice: &min, MaxPrice: &max})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for _, s := range results {
		if s.Price < min || s.Price > max {
			t.Errorf("sweet %s price %v outside range", s.Name, s.Price)
		}
	}
	if !containsID(results, pricey.ID) {
		t.Error("expected the pricey sweet in results")
	}
	if containsID(results, cheap.ID) {
		t.Error("did not expect the cheap sweet in results")
	}
}

func floatPtr(f float64) *float64 { return &f }

func containsID(sweets []domain.Sweet, id primitive.ObjectID) bool {
	for _, s := range sweets {
		if s.ID == id {
			return true
		}
	}
	return false
}

func TestUserRepository_CountAndLookup(t *testing.T) {
	db := getMongoDB(t)
	repo := NewMongoUserRepository(db)
	ctx := context.Background()

	email := "itest-" + primitive.NewObjectID().Hex() + "@example.com"
	user := &domain.User{
		Email:        email,
		PasswordHash: "x",
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := repo.Insert(ctx, user); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Collection(usersCollection).DeleteOne(context.Background(), bson.M{"email": email})
	})

	found, err := repo.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Error("expected to find the inserted user")
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n < 1 {
		t.Errorf("expected at least 1 user, got %d", n)
	}

	missing, err := repo.FindByID(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown user")
	}
}
