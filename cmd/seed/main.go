// Command seed loads the default catalog into MongoDB, replacing
// whatever sweets are already there.
package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/adapter/storage"
	"github.com/rl1809/sweet-shop/internal/config"
	"github.com/rl1809/sweet-shop/internal/core/domain"
)

var defaultSweets = []domain.Sweet{
	{
		Name:        "Gulab Jamun",
		Description: "Soft, spongy milk-solid balls soaked in aromatic sugar syrup",
		Price:       150,
		Stock:       50,
		Category:    domain.CategoryMilkSweets,
		Image:       "/gulab-jamun-sweet.jpg",
	},
	{
		Name:        "Rasgulla",
		Description: "Light, fluffy cottage cheese balls in sweet syrup",
		Price:       120,
		Stock:       40,
		Category:    domain.CategoryMilkSweets,
		Image:       "/rasgulla-sweet.jpg",
	},
	{
		Name:        "Jalebi",
		Description: "Crispy, spiral-shaped deep-fried sweets soaked in sugar syrup",
		Price:       180,
		Stock:       35,
		Category:    domain.CategoryFestival,
		Image:       "/jalebi-sweet.jpg",
	},
	{
		Name:        "Kaju Katli",
		Description: "Diamond-shaped cashew fudge with silver leaf",
		Price:       300,
		Stock:       25,
		Category:    domain.CategoryDryFruits,
		Image:       "/kaju-katli-sweet.jpg",
	},
	{
		Name:        "Motichoor Ladoo",
		Description: "Round sweets made from tiny chickpea flour pearls",
		Price:       200,
		Stock:       30,
		Category:    domain.CategoryFestival,
		Image:       "/ladoo-sweet.jpg",
	},
	{
		Name:        "Barfi",
		Description: "Rich milk-based confection with nuts and aromatic spices",
		Price:       250,
		Stock:       20,
		Category:    domain.CategoryMilkSweets,
		Image:       "/barfi-sweet.jpg",
	},
	{
		Name:        "Kesar Pista Kulfi",
		Description: "Traditional frozen dessert with saffron and pistachios",
		Price:       80,
		Stock:       45,
		Category:    domain.CategoryFrozenTreats,
		Image:       domain.DefaultImage,
	},
	{
		Name:        "Ras Malai",
		Description: "Delicate cottage cheese dumplings in sweetened milk",
		Price:       160,
		Stock:       35,
		Category:    domain.CategoryMilkSweets,
		Image:       domain.DefaultImage,
	},
}

func main() {
	cfg := config.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("failed to ping mongodb", zap.Error(err))
	}

	db := client.Database(cfg.MongoDatabase)
	if _, err := db.Collection("sweets").DeleteMany(ctx, bson.M{}); err != nil {
		logger.Fatal("failed to clear sweets", zap.Error(err))
	}

	repo := storage.NewMongoSweetRepository(db)
	now := time.Now().UTC()
	for _, sweet := range defaultSweets {
		sweet.IsActive = true
		sweet.CreatedAt = now
		sweet.UpdatedAt = now
		if err := repo.Insert(ctx, &sweet); err != nil {
			logger.Fatal("failed to insert sweet", zap.String("name", sweet.Name), zap.Error(err))
		}
		logger.Info("seeded sweet",
			zap.String("name", sweet.Name),
			zap.String("category", string(sweet.Category)),
			zap.Int("stock", sweet.Stock),
		)
	}

	logger.Info("seeding complete", zap.Int("count", len(defaultSweets)))
}
