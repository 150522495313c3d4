package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/core/logger"
	"storefront/internal/core/storage"
	"storefront/internal/core/validation"
	"storefront/internal/features/preferences/domain"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrInvalidTheme    = errors.New("invalid_theme")
	ErrInvalidCurrency = errors.New("invalid_currency")
)

// ThemeStore keeps the light/dark preference.
type ThemeStore struct {
	v rawValue[domain.ThemeMode]
}

// NewThemeStore creates a theme store backed by the theme-mode key.
func NewThemeStore(store storage.Store) *ThemeStore {
	return &ThemeStore{v: rawValue[domain.ThemeMode]{
		store: store,
		key:   storage.KeyThemeMode,
		def:   domain.DefaultTheme,
		valid: domain.ThemeMode.Valid,
		log:   logger.Named("preferences"),
	}}
}

// Load reads the stored mode, falling back to light.
func (s *ThemeStore) Load(ctx context.Context) error { return s.v.reload(ctx) }

// Mode returns the current mode.
func (s *ThemeStore) Mode(ctx context.Context) (domain.ThemeMode, error) { return s.v.get(ctx) }

// SetMode stores mode.
func (s *ThemeStore) SetMode(ctx context.Context, mode domain.ThemeMode) error {
	if !mode.Valid() {
		return ErrInvalidTheme
	}
	return s.v.set(ctx, mode)
}

// Toggle flips between light and dark and returns the new mode.
func (s *ThemeStore) Toggle(ctx context.Context) (domain.ThemeMode, error) {
	return s.v.update(ctx, domain.ThemeMode.Toggled)
}

// CurrencyStore keeps the display currency.
type CurrencyStore struct {
	v rawValue[domain.Currency]
}

// NewCurrencyStore creates a currency store backed by the app-currency key.
func NewCurrencyStore(store storage.Store) *CurrencyStore {
	return &CurrencyStore{v: rawValue[domain.Currency]{
		store: store,
		key:   storage.KeyCurrency,
		def:   domain.DefaultCurrency,
		valid: domain.Currency.Valid,
		log:   logger.Named("preferences"),
	}}
}

// Load reads the stored currency, falling back to USD.
func (s *CurrencyStore) Load(ctx context.Context) error { return s.v.reload(ctx) }

// Currency returns the current currency.
func (s *CurrencyStore) Currency(ctx context.Context) (domain.Currency, error) { return s.v.get(ctx) }

// SetCurrency stores c.
func (s *CurrencyStore) SetCurrency(ctx context.Context, c domain.Currency) error {
	if !c.Valid() {
		return ErrInvalidCurrency
	}
	return s.v.set(ctx, c)
}

// Format renders amount in the current currency.
func (s *CurrencyStore) Format(ctx context.Context, amount float64) (string, error) {
	c, err := s.v.get(ctx)
	if err != nil {
		return "", err
	}
	return c.Format(amount), nil
}

// SettingsStore keeps the app settings blob.
type SettingsStore struct {
	store    storage.Store
	validate *validatorv10.Validate
	log      *zap.Logger

	mu       sync.Mutex
	settings domain.AppSettings
	loaded   bool
}

// NewSettingsStore creates a settings store backed by the appSettings key.
func NewSettingsStore(store storage.Store, v *validatorv10.Validate) *SettingsStore {
	return &SettingsStore{store: store, validate: v, log: logger.Named("preferences")}
}

// Load reads the stored settings. Missing or undecodable settings read as the defaults.
func (s *SettingsStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *SettingsStore) load(ctx context.Context) error {
	settings := domain.DefaultAppSettings()
	ok, err := storage.LoadValue(ctx, s.store, storage.KeyAppSettings, &settings)
	if err != nil {
		return fmt.Errorf("service: failed to read settings: %w", err)
	}
	if !ok || validation.Check(s.validate, settings) != nil {
		settings = domain.DefaultAppSettings()
	}
	s.settings = settings
	s.loaded = true
	return nil
}

// Settings returns the current settings.
func (s *SettingsStore) Settings(ctx context.Context) (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.load(ctx); err != nil {
			return domain.DefaultAppSettings(), err
		}
	}
	return s.settings, nil
}

// Update validates and stores settings.
func (s *SettingsStore) Update(ctx context.Context, settings domain.AppSettings) (domain.AppSettings, error) {
	if err := validation.Check(s.validate, settings); err != nil {
		return domain.AppSettings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.SaveValue(ctx, s.store, storage.KeyAppSettings, settings); err != nil {
		return s.settings, fmt.Errorf("service: failed to persist settings: %w", err)
	}
	s.settings = settings
	s.loaded = true

	s.log.Debug("Settings updated", zap.String("language", settings.Language))
	return settings, nil
}
