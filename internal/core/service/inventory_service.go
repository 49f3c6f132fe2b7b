package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/core/domain"
	"github.com/rl1809/sweet-shop/internal/port"
)

// InventoryService executes the stock-mutating operations. It holds no
// stock state between calls; every mutation is a single conditional update
// against the repository, so two racing purchases can never drive stock
// below zero. Purchase totals are rounded to 2 decimal places, half away
// from zero.
type InventoryService struct {
	sweets port.SweetRepository
	cache  port.CacheRepository
	logger *zap.Logger
}

// NewInventoryService builds an InventoryService. cache may be nil, in
// which case duplicate-request protection is disabled.
func NewInventoryService(sweets port.SweetRepository, cache port.CacheRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{sweets: sweets, cache: cache, logger: logger}
}

// Purchase decrements stock by quantity and returns the updated sweet with
// a transaction summary. requestID is optional; when present it keys an
// idempotency guard so a retried request cannot buy twice.
func (s *InventoryService) Purchase(ctx context.Context, principal domain.Principal, sweetID string, quantity int, requestID string) (*domain.Sweet, *domain.PurchaseDetails, error) {
	id, err := primitive.ObjectIDFromHex(sweetID)
	if err != nil {
		return nil, nil, ErrInvalidID
	}
	if quantity <= 0 {
		return nil, nil, ErrQuantityNotPositive
	}

	if s.cache != nil && requestID != "" {
		key := fmt.Sprintf("purchase:%s:%s", principal.ID, requestID)
		ok, err := s.cache.SetIdempotency(ctx, key)
		if err != nil {
			// Fail open: a duplicate purchase is recoverable by restocking,
			// a rejected sale is not.
			s.logger.Warn("idempotency check failed", zap.Error(err), zap.String("key", key))
		} else if !ok {
			return nil, nil, ErrDuplicateRequest
		}
	}

	updated, err := s.sweets.DecrementStock(ctx, id, quantity)
	if err != nil {
		return nil, nil, fmt.Errorf("decrement stock: %w", err)
	}
	if updated == nil {
		// The conditional update matched nothing: either the sweet is gone
		// or its stock is short. Re-fetch to report the fresh value.
		current, err := s.sweets.FindByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch sweet: %w", err)
		}
		if current == nil {
			return nil, nil, ErrNotFound
		}
		return nil, nil, &InsufficientStockError{Available: current.Stock, Requested: quantity}
	}

	details := &domain.PurchaseDetails{
		Quantity:   quantity,
		UnitPrice:  updated.Price,
		TotalPrice: purchaseTotal(updated.Price, quantity),
	}

	s.logger.Info("purchase completed",
		zap.String("sweet_id", sweetID),
		zap.String("user_id", principal.ID),
		zap.Int("quantity", quantity),
		zap.Int("stock", updated.Stock),
		zap.Float64("total_price", details.TotalPrice),
	)

	return updated, details, nil
}

// Restock increments stock by quantity. There is no upper bound on the
// resulting stock.
func (s *InventoryService) Restock(ctx context.Context, principal domain.Principal, sweetID string, quantity int) (*domain.Sweet, *domain.RestockDetails, error) {
	id, err := primitive.ObjectIDFromHex(sweetID)
	if err != nil {
		return nil, nil, ErrInvalidID
	}
	if quantity <= 0 {
		return nil, nil, ErrQuantityNotPositive
	}

	updated, err := s.sweets.IncrementStock(ctx, id, quantity)
	if err != nil {
		return nil, nil, fmt.Errorf("increment stock: %w", err)
	}
	if updated == nil {
		return nil, nil, ErrNotFound
	}

	details := &domain.RestockDetails{
		Quantity:      quantity,
		PreviousStock: updated.Stock - quantity,
		NewStock:      updated.Stock,
	}

	s.logger.Info("restock completed",
		zap.String("sweet_id", sweetID),
		zap.String("user_id", principal.ID),
		zap.Int("quantity", quantity),
		zap.Int("stock", updated.Stock),
	)

	return updated, details, nil
}

// purchaseTotal computes quantity * unitPrice rounded to the currency's
// minor unit. decimal.Round rounds half away from zero, which is
// round-half-up for the non-negative prices this domain allows.
func purchaseTotal(unitPrice float64, quantity int) float64 {
	total := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2)
	f, _ := total.Float64()
	return f
}
