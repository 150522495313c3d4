package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/core/logger"
	addressdomain "storefront/internal/features/addresses/domain"
	"storefront/internal/features/checkout/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long a session may sit untouched before it is dropped.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown, discarded or expired sessions.
var ErrSessionNotFound = errors.New("checkout session not found")

type dependencies struct {
	orders    ports.OrderPlacer
	payments  ports.PaymentProcessor
	cart      ports.Cart
	addresses ports.AddressBook
	taxRate   float64
	log       *zap.Logger
}

type entry struct {
	session *Session
	touched time.Time
}

// Manager keeps the open checkout sessions. A session not looked up for the TTL
// is dropped, finished or not.
type Manager struct {
	deps  *dependencies
	newID func() string
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*entry
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSessionTTL sets the idle lifetime of a session. Non-positive values keep the default.
func WithSessionTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// WithManagerClock replaces the clock used for session expiry.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new Manager.
func NewManager(
	orders ports.OrderPlacer,
	payments ports.PaymentProcessor,
	cart ports.Cart,
	addresses ports.AddressBook,
	taxRate float64,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		deps: &dependencies{
			orders:    orders,
			payments:  payments,
			cart:      cart,
			addresses: addresses,
			taxRate:   taxRate,
			log:       logger.Named("checkout"),
		},
		newID:    uuid.NewString,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a session at the shipping step with the default address preselected.
func (m *Manager) Create(ctx context.Context, userID string) (*Session, error) {
	s := newSession(m.newID(), userID, m.deps)

	list, err := m.deps.addresses.GetSavedAddresses(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.deps.log.Warn("Could not preselect default address", zap.Error(err))
	} else if a, ok := addressdomain.Default(list); ok {
		_ = s.SetAddress(a)
	}

	m.mu.Lock()
	now := m.now()
	m.sweep(now)
	m.sessions[s.id] = &entry{session: s, touched: now}
	m.mu.Unlock()

	m.deps.log.Debug("Checkout session opened", zap.String("session_id", s.id))
	return s, nil
}

// Get returns the session with the given id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.sessions, id)
		m.deps.log.Debug("Checkout session expired", zap.String("session_id", id))
		return nil, ErrSessionNotFound
	}
	e.touched = now
	return e.session, nil
}

// Discard forgets the session. Unknown ids are ignored.
func (m *Manager) Discard(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of open sessions, expired ones included until the next sweep.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) expired(e *entry, now time.Time) bool {
	return now.Sub(e.touched) > m.ttl
}

// sweep drops expired sessions. Callers hold mu.
func (m *Manager) sweep(now time.Time) {
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
		}
	}
}
