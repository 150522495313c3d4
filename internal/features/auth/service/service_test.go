package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/core/latency"
	"storefront/internal/core/storage"
	"storefront/internal/core/validation"
	"storefront/internal/features/auth/adapters"
	"storefront/internal/features/auth/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newService(store storage.Store, c *clock) *AuthService {
	return NewAuthService(
		adapters.NewStoreUserRepository(store),
		adapters.NewStoreDeviceState(store),
		latency.None(),
		validation.New(),
		"test-secret",
		time.Hour,
		WithHashCost(bcrypt.MinCost),
		WithClock(c.Now),
	)
}

var ana = domain.RegisterRequest{FullName: "Ana Lima", Email: "Ana@Example.com ", Password: "secret1"}

func TestAuthService_RegisterAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := newService(store, &clock{t: time.Now()})

	session, err := svc.Register(ctx, ana)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ana@example.com", session.User.Email)

	raw, err := store.Get(ctx, storage.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, session.Token, string(raw))

	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	id, err := svc.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newService(storage.NewMemoryStore(), &clock{t: time.Now()})

	_, err := svc.Register(ctx, ana)
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterRequest{FullName: "Other", Email: "ana@example.com", Password: "other22"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	_, err := newService(storage.NewMemoryStore(), &clock{t: time.Now()}).
		Register(context.Background(), domain.RegisterRequest{Email: "nope", Password: "short"})

	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "validation.required", fe["fullName"])
	assert.Equal(t, "validation.email_invalid", fe["email"])
	assert.Equal(t, "validation.password_too_short", fe["password"])
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newService(storage.NewMemoryStore(), &clock{t: time.Now()})
	_, err := svc.Register(ctx, ana)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	tests := []struct {
		name    string
		req     domain.LoginRequest
		wantErr error
	}{
		{name: "Success", req: domain.LoginRequest{Email: "ANA@example.com", Password: "secret1"}},
		{name: "WrongPassword", req: domain.LoginRequest{Email: "ana@example.com", Password: "secret2"}, wantErr: ErrInvalidCredentials},
		{name: "UnknownEmail", req: domain.LoginRequest{Email: "bob@example.com", Password: "secret1"}, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ana Lima", session.User.FullName)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc := newService(storage.NewMemoryStore(), &clock{t: time.Now()})
	_, err := svc.Register(ctx, ana)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthService_ExpiredTokenIsCleared(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	c := &clock{t: time.Now()}
	svc := newService(store, c)

	session, err := svc.Register(ctx, ana)
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Hour)
	_, err = svc.VerifyToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = store.Get(ctx, storage.KeyAuthToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAuthService_VerifyTokenForeignSecret(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Now()}
	session, err := newService(storage.NewMemoryStore(), c).Register(ctx, ana)
	require.NoError(t, err)

	other := NewAuthService(
		adapters.NewStoreUserRepository(storage.NewMemoryStore()),
		adapters.NewStoreDeviceState(storage.NewMemoryStore()),
		latency.None(), validation.New(), "another-secret", time.Hour, WithClock(c.Now),
	)
	_, err = other.VerifyToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Onboarding(t *testing.T) {
	ctx := context.Background()
	svc := newService(storage.NewMemoryStore(), &clock{t: time.Now()})

	launched, err := svc.HasLaunched(ctx)
	require.NoError(t, err)
	assert.False(t, launched)

	require.NoError(t, svc.MarkLaunched(ctx))
	launched, err = svc.HasLaunched(ctx)
	require.NoError(t, err)
	assert.True(t, launched)
}
