package adapters

import (
	"context"
	"fmt"

	"storefront/internal/core/storage"
	"storefront/internal/features/payments/domain"
)

// StoreCardRepository keeps saved cards under storage.KeyPaymentCards.
type StoreCardRepository struct {
	store storage.Store
}

// NewStoreCardRepository creates a new StoreCardRepository.
func NewStoreCardRepository(s storage.Store) *StoreCardRepository {
	return &StoreCardRepository{store: s}
}

func (r *StoreCardRepository) List(ctx context.Context) ([]domain.PaymentCard, error) {
	list, err := storage.LoadList[domain.PaymentCard](ctx, r.store, storage.KeyPaymentCards)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	return list, nil
}

func (r *StoreCardRepository) ReplaceAll(ctx context.Context, cards []domain.PaymentCard) error {
	if err := storage.SaveList(ctx, r.store, storage.KeyPaymentCards, cards); err != nil {
		return fmt.Errorf("failed to save cards: %w", err)
	}
	return nil
}

// StoreTransactionRepository keeps gateway outcomes under storage.KeyTransactions.
type StoreTransactionRepository struct {
	store storage.Store
}

// NewStoreTransactionRepository creates a new StoreTransactionRepository.
func NewStoreTransactionRepository(s storage.Store) *StoreTransactionRepository {
	return &StoreTransactionRepository{store: s}
}

func (r *StoreTransactionRepository) List(ctx context.Context) ([]domain.PaymentResponse, error) {
	list, err := storage.LoadList[domain.PaymentResponse](ctx, r.store, storage.KeyTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return list, nil
}

// Append is a read-modify-write of the whole list; it is not transactional.
func (r *StoreTransactionRepository) Append(ctx context.Context, tx domain.PaymentResponse) error {
	list, err := r.List(ctx)
	if err != nil {
		return err
	}
	if err := storage.SaveList(ctx, r.store, storage.KeyTransactions, append(list, tx)); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}
