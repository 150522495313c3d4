package service

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/core/logger"
	"storefront/internal/core/validation"
	"storefront/internal/features/cart/domain"
	"storefront/internal/features/cart/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Store holds the cart in memory, loading it once from the repository and
// writing it back after every change.
type Store struct {
	repo     ports.CartRepository
	validate *validatorv10.Validate
	log      *zap.Logger

	mu     sync.Mutex
	items  []domain.CartItem
	loaded bool
}

// NewStore creates a cart store. The cart is read on the first access or by Load.
func NewStore(repo ports.CartRepository, v *validatorv10.Validate) *Store {
	return &Store{repo: repo, validate: v, log: logger.Named("cart")}
}

// Load (re)reads the cart from the repository.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) error {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.items = items
	s.loaded = true
	return nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

// Items returns a copy of the cart lines.
func (s *Store) Items(ctx context.Context) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return append([]domain.CartItem{}, s.items...), nil
}

// Add validates item and merges it into the cart.
func (s *Store) Add(ctx context.Context, item domain.CartItem) ([]domain.CartItem, error) {
	if err := validation.Check(s.validate, item); err != nil {
		return nil, err
	}
	return s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		return domain.Add(items, item)
	})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (s *Store) UpdateQuantity(ctx context.Context, line domain.Line, qty int) ([]domain.CartItem, error) {
	return s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		return domain.SetQuantity(items, line, qty)
	})
}

// Remove drops a line.
func (s *Store) Remove(ctx context.Context, line domain.Line) ([]domain.CartItem, error) {
	return s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		return domain.Remove(items, line)
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.mutate(ctx, func([]domain.CartItem) []domain.CartItem {
		return []domain.CartItem{}
	})
	return err
}

// Subtotal returns the sum of the line prices.
func (s *Store) Subtotal(ctx context.Context) (float64, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	return domain.Subtotal(items), nil
}

// Count returns the number of units in the cart.
func (s *Store) Count(ctx context.Context) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	return domain.Count(items), nil
}

// mutate applies fn and persists the result. The in-memory cart only changes
// once the write succeeds.
func (s *Store) mutate(ctx context.Context, fn func([]domain.CartItem) []domain.CartItem) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next := fn(s.items)
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("service: failed to persist cart: %w", err)
	}
	s.items = next

	s.log.Debug("Cart updated", zap.Int("lines", len(next)), zap.Int("units", domain.Count(next)))
	return append([]domain.CartItem{}, next...), nil
}
