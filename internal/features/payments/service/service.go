package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/core/latency"
	"storefront/internal/core/logger"
	"storefront/internal/core/validation"
	"storefront/internal/features/payments/domain"
	"storefront/internal/features/payments/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnknownPaymentMethod is returned when the method ID is not in the catalog.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	// ErrCardNotFound is returned when a charge references a card that is not saved.
	ErrCardNotFound = errors.New("card not found")
)

const defaultCurrency = "USD"

// PaymentService is the mock payment gateway plus the saved card wallet.
type PaymentService struct {
	cards        ports.CardRepository
	transactions ports.TransactionRepository
	approver     ports.Approver
	delay        *latency.Simulator
	validate     *validatorv10.Validate
	now          func() time.Time
	newID        func() string
	log          *zap.Logger

	// cardsMu and txMu serialize read-modify-write cycles on the card and
	// transaction lists.
	cardsMu sync.Mutex
	txMu    sync.Mutex
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	cards ports.CardRepository,
	transactions ports.TransactionRepository,
	approver ports.Approver,
	delay *latency.Simulator,
	v *validatorv10.Validate,
) *PaymentService {
	return &PaymentService{
		cards:        cards,
		transactions: transactions,
		approver:     approver,
		delay:        delay,
		validate:     v,
		now:          time.Now,
		newID:        uuid.NewString,
		log:          logger.Named("payments"),
	}
}

// GetPaymentMethods returns the static payment catalog.
func (s *PaymentService) GetPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}
	return domain.PaymentMethods(), nil
}

// ProcessPayment charges the request through the simulated gateway.
// Every outcome is recorded. A decline is returned as a failed PaymentResponse;
// the error is reserved for invalid requests and infrastructure failures.
func (s *PaymentService) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentResponse, error) {
	if err := validation.Check(s.validate, req); err != nil {
		return nil, err
	}
	method, ok := domain.FindPaymentMethod(req.MethodID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, req.MethodID)
	}
	if req.CardID != "" {
		if err := s.ensureCard(ctx, req.CardID); err != nil {
			return nil, err
		}
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	resp := domain.PaymentResponse{
		TransactionID: "TXN-" + strings.ToUpper(s.newID()),
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        method.ID,
		Status:        domain.PaymentStatusCompleted,
		CreatedAt:     s.now(),
	}
	if !s.approver.Approve(req) {
		resp.Status = domain.PaymentStatusFailed
		resp.FailureReason = domain.FailureDeclined
	}

	s.txMu.Lock()
	err := s.transactions.Append(ctx, resp)
	s.txMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("service: failed to record transaction: %w", err)
	}

	s.log.Info("Payment processed",
		zap.String("transaction_id", resp.TransactionID),
		zap.String("order_id", resp.OrderID),
		zap.String("status", string(resp.Status)),
		zap.Float64("amount", resp.Amount),
	)
	return &resp, nil
}

// GetTransactions returns every recorded gateway outcome.
func (s *PaymentService) GetTransactions(ctx context.Context) ([]domain.PaymentResponse, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}
	return s.transactions.List(ctx)
}

// GetSavedCards returns the wallet.
func (s *PaymentService) GetSavedCards(ctx context.Context) ([]domain.PaymentCard, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}
	return s.cards.List(ctx)
}

// SaveCard validates the card form and stores the masked card, keeping a single default.
func (s *PaymentService) SaveCard(ctx context.Context, req domain.NewCardRequest) (*domain.PaymentCard, error) {
	if err := validation.Check(s.validate, req); err != nil {
		return nil, err
	}
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	s.cardsMu.Lock()
	defer s.cardsMu.Unlock()

	list, err := s.cards.List(ctx)
	if err != nil {
		return nil, err
	}

	card := req.ToCard(s.newID())
	if len(list) == 0 {
		card.IsDefault = true
	}

	if err := s.cards.ReplaceAll(ctx, domain.UpsertCard(list, card)); err != nil {
		return nil, fmt.Errorf("service: failed to save card: %w", err)
	}
	return &card, nil
}

// DeleteCard removes a saved card. Unknown IDs are ignored.
func (s *PaymentService) DeleteCard(ctx context.Context, id string) error {
	if err := s.delay.Wait(ctx); err != nil {
		return err
	}

	s.cardsMu.Lock()
	defer s.cardsMu.Unlock()

	list, err := s.cards.List(ctx)
	if err != nil {
		return err
	}
	if err := s.cards.ReplaceAll(ctx, domain.RemoveCard(list, id)); err != nil {
		return fmt.Errorf("service: failed to delete card: %w", err)
	}
	return nil
}

func (s *PaymentService) ensureCard(ctx context.Context, id string) error {
	list, err := s.cards.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		if c.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCardNotFound, id)
}
