package ports

import (
	"context"

	"storefront/internal/features/auth/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Add(ctx context.Context, user domain.User) error
}

// DeviceState holds what the client device remembers between launches:
// the current auth token and whether onboarding was shown.
type DeviceState interface {
	Token(ctx context.Context) (string, bool, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	Launched(ctx context.Context) (bool, error)
	SetLaunched(ctx context.Context) error
}
