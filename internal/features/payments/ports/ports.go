package ports

import (
	"context"

	"storefront/internal/features/payments/domain"
)

// CardRepository persists the saved card list as a whole.
type CardRepository interface {
	List(ctx context.Context) ([]domain.PaymentCard, error)
	ReplaceAll(ctx context.Context, cards []domain.PaymentCard) error
}

// TransactionRepository keeps every gateway outcome.
type TransactionRepository interface {
	List(ctx context.Context) ([]domain.PaymentResponse, error)
	Append(ctx context.Context, tx domain.PaymentResponse) error
}

// Approver decides whether the simulated gateway accepts a charge.
type Approver interface {
	Approve(req domain.PaymentRequest) bool
}
