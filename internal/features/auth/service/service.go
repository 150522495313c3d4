package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/core/latency"
	"storefront/internal/core/logger"
	"storefront/internal/core/validation"
	"storefront/internal/features/auth/domain"
	"storefront/internal/features/auth/ports"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotAuthenticated   = errors.New("not_authenticated")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrUserNotFound       = errors.New("user_not_found")
)

const issuer = "storefront"

// AuthService is the mock account backend. Tokens are HS256 JWTs whose
// subject is the user id.
type AuthService struct {
	users    ports.UserRepository
	device   ports.DeviceState
	delay    *latency.Simulator
	validate *validatorv10.Validate
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
	log      *zap.Logger

	// mu serializes registrations so an email is taken once.
	mu sync.Mutex
}

// Option configures an AuthService.
type Option func(*AuthService)

// WithHashCost sets the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *AuthService) { s.hashCost = cost }
}

// WithClock sets the time source used to issue and check tokens.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService creates a new AuthService.
func NewAuthService(users ports.UserRepository, device ports.DeviceState, delay *latency.Simulator, v *validatorv10.Validate, secret string, ttl time.Duration, opts ...Option) *AuthService {
	s := &AuthService{
		users:    users,
		device:   device,
		delay:    delay,
		validate: v,
		secret:   []byte(secret),
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		log:      logger.Named("auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error) {
	if err := validation.Check(s.validate, req); err != nil {
		return nil, err
	}
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Add(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", zap.String("user_id", user.ID))
	return s.signIn(ctx, user)
}

// Login checks the credentials and signs the user in.
// Unknown emails and wrong passwords are both ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	if err := validation.Check(s.validate, req); err != nil {
		return nil, err
	}
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.findByEmail(ctx, domain.NormalizeEmail(req.Email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Info("Login rejected", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	return s.signIn(ctx, *user)
}

// Logout forgets the stored token.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.device.ClearToken(ctx)
}

// CurrentUser resolves the stored token. A stale token is cleared.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	token, ok, err := s.device.Token(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAuthenticated
	}

	id, err := s.VerifyToken(token)
	if err == nil {
		var user *domain.User
		if user, err = s.User(ctx, id); err == nil {
			return user, nil
		}
	}
	if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	s.log.Info("Clearing stale auth token", zap.Error(err))
	if cerr := s.device.ClearToken(ctx); cerr != nil {
		s.log.Warn("Failed to clear auth token", zap.Error(cerr))
	}
	return nil, ErrNotAuthenticated
}

// User returns the account with the given id.
func (s *AuthService) User(ctx context.Context, id string) (*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// VerifyToken checks signature and expiry and returns the user id.
func (s *AuthService) VerifyToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HasLaunched reports whether onboarding was completed on this device.
func (s *AuthService) HasLaunched(ctx context.Context) (bool, error) {
	return s.device.Launched(ctx)
}

// MarkLaunched records that onboarding was completed.
func (s *AuthService) MarkLaunched(ctx context.Context) error {
	return s.device.SetLaunched(ctx)
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *AuthService) signIn(ctx context.Context, user domain.User) (*domain.Session, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("service: failed to sign token: %w", err)
	}

	if err := s.device.SetToken(ctx, token); err != nil {
		return nil, fmt.Errorf("service: failed to store token: %w", err)
	}
	return &domain.Session{Token: token, ExpiresAt: expires.UTC(), User: user.Profile()}, nil
}
