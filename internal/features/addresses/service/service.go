package service

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/core/latency"
	"storefront/internal/core/logger"
	"storefront/internal/core/validation"
	"storefront/internal/features/addresses/domain"
	"storefront/internal/features/addresses/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddressBook is the mock address book backend.
type AddressBook struct {
	repo     ports.AddressRepository
	delay    *latency.Simulator
	validate *validatorv10.Validate
	newID    func() string
	log      *zap.Logger

	// mu serializes read-modify-write cycles on the address list.
	mu sync.Mutex
}

// NewAddressBook creates a new AddressBook.
func NewAddressBook(repo ports.AddressRepository, delay *latency.Simulator, v *validatorv10.Validate) *AddressBook {
	return &AddressBook{
		repo:     repo,
		delay:    delay,
		validate: v,
		newID:    newTimeOrderedID,
		log:      logger.Named("addresses"),
	}
}

// newTimeOrderedID returns a UUIDv7, whose leading bits are the creation timestamp.
func newTimeOrderedID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GetSavedAddresses returns every saved address in insertion order.
func (s *AddressBook) GetSavedAddresses(ctx context.Context) ([]domain.ShippingAddress, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// GetDefaultAddress returns the default address, or nil when none is flagged.
func (s *AddressBook) GetDefaultAddress(ctx context.Context) (*domain.ShippingAddress, error) {
	list, err := s.GetSavedAddresses(ctx)
	if err != nil {
		return nil, err
	}
	if a, ok := domain.Default(list); ok {
		return &a, nil
	}
	return nil, nil
}

// SaveAddress validates and upserts the address, keeping a single default.
func (s *AddressBook) SaveAddress(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error) {
	if err := validation.Check(s.validate, a); err != nil {
		return nil, err
	}
	if a.Label == "" {
		a.Label = domain.LabelHome
	}

	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if a.ID == "" {
		a.ID = s.newID()
	}

	if err := s.repo.ReplaceAll(ctx, domain.Upsert(list, a)); err != nil {
		return nil, fmt.Errorf("service: failed to save address: %w", err)
	}

	s.log.Debug("Address saved", zap.String("address_id", a.ID), zap.Bool("default", a.IsDefault))
	return &a, nil
}

// DeleteAddress removes the address with the given ID. Unknown IDs are ignored.
func (s *AddressBook) DeleteAddress(ctx context.Context, id string) error {
	if err := s.delay.Wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.ReplaceAll(ctx, domain.Remove(list, id)); err != nil {
		return fmt.Errorf("service: failed to delete address: %w", err)
	}
	return nil
}
