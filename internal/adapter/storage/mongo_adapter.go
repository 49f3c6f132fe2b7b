package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rl1809/sweet-shop/internal/core/domain"
)

const (
	sweetsCollection = "sweets"
	usersCollection  = "users"
)

type MongoSweetRepository struct {
	col *mongo.Collection
}

func NewMongoSweetRepository(db *mongo.Database) *MongoSweetRepository {
	return &MongoSweetRepository{col: db.Collection(sweetsCollection)}
}

func (m *MongoSweetRepository) Insert(ctx context.Context, sweet *domain.Sweet) error {
	res, err := m.col.InsertOne(ctx, sweet)
	if err != nil {
		return fmt.Errorf("insert sweet: %w", err)
	}
	sweet.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (m *MongoSweetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Sweet, error) {
	var sweet domain.Sweet
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sweet: %w", err)
	}
	return &sweet, nil
}

func (m *MongoSweetRepository) FindAll(ctx context.Context) ([]domain.Sweet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sweets: %w", err)
	}
	sweets := []domain.Sweet{}
	if err := cur.All(ctx, &sweets); err != nil {
		return nil, fmt.Errorf("decode sweets: %w", err)
	}
	return sweets, nil
}

func (m *MongoSweetRepository) Search(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = primitive.Regex{Pattern: filter.Name, Options: "i"}
	}
	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: filter.Category, Options: "i"}
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}

	cur, err := m.col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	sweets := []domain.Sweet{}
	if err := cur.All(ctx, &sweets); err != nil {
		return nil, fmt.Errorf("decode sweets: %w", err)
	}
	return sweets, nil
}

func (m *MongoSweetRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.SweetPatch) (*domain.Sweet, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sweet domain.Sweet
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&sweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	return &sweet, nil
}

func (m *MongoSweetRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete sweet: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// DecrementStock runs the check and the decrement as one conditional
// update: the filter only matches while stock covers the quantity, so two
// racing purchases can never drive stock negative. No match returns
// (nil, nil); the caller decides between not-found and insufficient stock.
func (m *MongoSweetRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (*domain.Sweet, error) {
	filter := bson.M{"_id": id, "stock": bson.M{"$gte": quantity}}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sweet domain.Sweet
	err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	return &sweet, nil
}

func (m *MongoSweetRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (*domain.Sweet, error) {
	update := bson.M{
		"$inc": bson.M{"stock": quantity},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sweet domain.Sweet
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&sweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment stock: %w", err)
	}
	return &sweet, nil
}

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Safe to call on every boot.
func (m *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (m *MongoUserRepository) Insert(ctx context.Context, user *domain.User) error {
	res, err := m.col.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (m *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := m.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (m *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (m *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
