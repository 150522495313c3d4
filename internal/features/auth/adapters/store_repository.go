package adapters

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/storage"
	"storefront/internal/features/auth/domain"
)

// StoreUserRepository keeps the accounts in one JSON array under storage.KeyUsers.
type StoreUserRepository struct {
	store storage.Store
}

// NewStoreUserRepository creates a new StoreUserRepository.
func NewStoreUserRepository(s storage.Store) *StoreUserRepository {
	return &StoreUserRepository{store: s}
}

func (r *StoreUserRepository) List(ctx context.Context) ([]domain.User, error) {
	list, err := storage.LoadList[domain.User](ctx, r.store, storage.KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return list, nil
}

func (r *StoreUserRepository) Add(ctx context.Context, user domain.User) error {
	list, err := r.List(ctx)
	if err != nil {
		return err
	}
	if err := storage.SaveList(ctx, r.store, storage.KeyUsers, append(list, user)); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// StoreDeviceState keeps the token and the launch flag as raw strings.
type StoreDeviceState struct {
	store storage.Store
}

// NewStoreDeviceState creates a new StoreDeviceState.
func NewStoreDeviceState(s storage.Store) *StoreDeviceState {
	return &StoreDeviceState{store: s}
}

func (d *StoreDeviceState) Token(ctx context.Context) (string, bool, error) {
	data, err := d.store.Get(ctx, storage.KeyAuthToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read auth token: %w", err)
	}
	return string(data), len(data) > 0, nil
}

func (d *StoreDeviceState) SetToken(ctx context.Context, token string) error {
	return d.store.Set(ctx, storage.KeyAuthToken, []byte(token))
}

func (d *StoreDeviceState) ClearToken(ctx context.Context) error {
	return d.store.Delete(ctx, storage.KeyAuthToken)
}

// Launched reports whether hasLaunched holds "true".
func (d *StoreDeviceState) Launched(ctx context.Context) (bool, error) {
	data, err := d.store.Get(ctx, storage.KeyHasLaunched)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read launch flag: %w", err)
	}
	return string(data) == "true", nil
}

func (d *StoreDeviceState) SetLaunched(ctx context.Context) error {
	return d.store.Set(ctx, storage.KeyHasLaunched, []byte("true"))
}
