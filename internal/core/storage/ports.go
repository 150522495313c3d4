package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is the persistent key-value port every collection is saved through.
// Each logical collection lives under its own fixed key as a single JSON blob.
type Store interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key without expiration.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks if the backing service is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// Keys of the persisted collections.
const (
	KeyAddresses    = "@user_addresses"
	KeyPaymentCards = "@user_payment_cards"
	KeyOrders       = "@user_orders"
	KeyTransactions = "@user_transactions"
	KeyCart         = "@cart_items"
	KeyUsers        = "@users"
	KeyAppSettings  = "appSettings"
	KeyThemeMode    = "theme-mode"
	KeyCurrency     = "app-currency"
	KeyHasLaunched  = "hasLaunched"
	KeyAuthToken    = "authToken"
)
