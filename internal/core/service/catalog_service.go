package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/core/domain"
	"github.com/rl1809/sweet-shop/internal/port"
)

// CatalogService owns the CRUD and search side of the catalog. Stock
// mutations live in InventoryService.
type CatalogService struct {
	sweets port.SweetRepository
	logger *zap.Logger
}

func NewCatalogService(sweets port.SweetRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{sweets: sweets, logger: logger}
}

// CreateSweetInput carries the attributes of a new sweet. Price and Stock
// are pointers so a missing field can be told apart from an explicit zero.
type CreateSweetInput struct {
	Name        string          `json:"name"`
	Category    domain.Category `json:"category"`
	Price       *float64        `json:"price"`
	Stock       *int            `json:"stock"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// UpdateSweetInput is a partial update; nil fields are left untouched.
type UpdateSweetInput struct {
	Name        *string          `json:"name"`
	Category    *domain.Category `json:"category"`
	Price       *float64         `json:"price"`
	Stock       *int             `json:"stock"`
	Image       *string          `json:"image"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"isActive"`
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Sweet, error) {
	sweets, err := s.sweets.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	return sweets, nil
}

func (s *CatalogService) Search(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	sweets, err := s.sweets.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	return sweets, nil
}

func (s *CatalogService) Get(ctx context.Context, sweetID string) (*domain.Sweet, error) {
	id, err := primitive.ObjectIDFromHex(sweetID)
	if err != nil {
		return nil, ErrInvalidID
	}
	sweet, err := s.sweets.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch sweet: %w", err)
	}
	if sweet == nil {
		return nil, ErrNotFound
	}
	return sweet, nil
}

// Create validates every attribute and reports all violations together.
func (s *CatalogService) Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error) {
	var violations []string

	if strings.TrimSpace(input.Name) == "" {
		violations = append(violations, "Sweet name is required")
	}
	if input.Category == "" {
		violations = append(violations, "Category is required")
	} else if !input.Category.Valid() {
		violations = append(violations, "Category must be one of the known categories")
	}
	if input.Price == nil {
		violations = append(violations, "Price is required")
	} else if err := validPrice(*input.Price); err != "" {
		violations = append(violations, err)
	}
	if input.Stock == nil {
		violations = append(violations, "Stock is required")
	} else if *input.Stock < 0 {
		violations = append(violations, "Stock cannot be negative")
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Errors: violations}
	}

	now := time.Now().UTC()
	sweet := &domain.Sweet{
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Price:       *input.Price,
		Stock:       *input.Stock,
		Image:       input.Image,
		Description: input.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if sweet.Image == "" {
		sweet.Image = domain.DefaultImage
	}

	if err := s.sweets.Insert(ctx, sweet); err != nil {
		return nil, fmt.Errorf("insert sweet: %w", err)
	}

	s.logger.Info("sweet created",
		zap.String("sweet_id", sweet.ID.Hex()),
		zap.String("name", sweet.Name),
		zap.Int("stock", sweet.Stock),
	)
	return sweet, nil
}

// Update re-validates any attribute present in the partial payload with
// the same rules as Create; it cannot drive stock or price negative.
func (s *CatalogService) Update(ctx context.Context, sweetID string, input UpdateSweetInput) (*domain.Sweet, error) {
	id, err := primitive.ObjectIDFromHex(sweetID)
	if err != nil {
		return nil, ErrInvalidID
	}

	var violations []string
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		violations = append(violations, "Sweet name is required")
	}
	if input.Category != nil && !input.Category.Valid() {
		violations = append(violations, "Category must be one of the known categories")
	}
	if input.Price != nil {
		if err := validPrice(*input.Price); err != "" {
			violations = append(violations, err)
		}
	}
	if input.Stock != nil && *input.Stock < 0 {
		violations = append(violations, "Stock cannot be negative")
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Errors: violations}
	}

	patch := domain.SweetPatch{
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
		Description: input.Description,
		IsActive:    input.IsActive,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		patch.Name = &trimmed
	}

	updated, err := s.sweets.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("sweet updated", zap.String("sweet_id", sweetID))
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, sweetID string) error {
	id, err := primitive.ObjectIDFromHex(sweetID)
	if err != nil {
		return ErrInvalidID
	}
	deleted, err := s.sweets.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("sweet deleted", zap.String("sweet_id", sweetID))
	return nil
}

func validPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "Price must be a finite number"
	}
	if price < 0 {
		return "Price must be positive"
	}
	return ""
}
