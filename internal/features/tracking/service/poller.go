package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/features/tracking/domain"
	"storefront/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// DefaultPollInterval is the auto refresh period of a tracking view.
const DefaultPollInterval = 30 * time.Second

// ViewState is what a tracking view currently shows.
type ViewState string

const (
	ViewLoading ViewState = "loading"
	ViewReady   ViewState = "ready"
	ViewError   ViewState = "error"
)

// View is the state of a tracking view. A ready view carries Tracking and no
// error; an error view carries Error and its Actions and no data.
type View struct {
	State ViewState `json:"state"`
	// Refreshing marks a silent refresh over data already shown.
	Refreshing bool                  `json:"refreshing,omitempty"`
	Tracking   *domain.OrderTracking `json:"tracking,omitempty"`
	Error      string                `json:"error,omitempty"`
	Actions    []string              `json:"actions,omitempty"`
}

// Ticker delivers the auto refresh ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker returns a Ticker backed by time.Ticker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Poller keeps a tracking view fresh until the order is delivered.
type Poller struct {
	provider  ports.TrackingProvider
	orderID   string
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	onUpdate  func(View)
	log       *zap.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the auto refresh period.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithTicker replaces the ticker factory.
func WithTicker(f func(time.Duration) Ticker) PollerOption {
	return func(p *Poller) { p.newTicker = f }
}

// NewPoller creates a poller for orderID. onUpdate receives every view change on the
// poller goroutine and must not call Handle.Stop.
func NewPoller(provider ports.TrackingProvider, orderID string, onUpdate func(View), opts ...PollerOption) *Poller {
	p := &Poller{
		provider:  provider,
		orderID:   orderID,
		interval:  DefaultPollInterval,
		newTicker: NewTimeTicker,
		onUpdate:  onUpdate,
		log:       logger.Named("tracking.poller").With(zap.String("order_id", orderID)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle controls a running poller.
type Handle struct {
	cancel  context.CancelFunc
	refresh chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	stopped bool
	view    View
}

// Stop cancels the poller. No fetch starts and no update is delivered after Stop
// returns; a fetch already in flight is left to finish and its result is dropped.
func (h *Handle) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.cancel()
}

// Refresh asks for an immediate fetch, as a pull-to-refresh or a retry would.
func (h *Handle) Refresh() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

// View returns the latest view.
func (h *Handle) View() View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// Done is closed once the poller goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start fetches the tracking with a full loading state and then refreshes it
// silently on every tick until it is delivered or the handle is stopped.
func (p *Poller) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel:  cancel,
		refresh: make(chan struct{}, 1),
		done:    make(chan struct{}),
		view:    View{State: ViewLoading},
	}
	go p.run(ctx, h)
	return h
}

func (p *Poller) run(ctx context.Context, h *Handle) {
	defer close(h.done)

	var ticker Ticker
	var tick <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer stopTicker()

	if !p.fetch(ctx, h) {
		ticker = p.newTicker(p.interval)
		tick = ticker.C()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
		case <-h.refresh:
		}
		if ctx.Err() != nil {
			return
		}
		if p.fetch(ctx, h) {
			stopTicker()
		}
	}
}

// fetch loads the tracking once and reports whether it is delivered.
func (p *Poller) fetch(ctx context.Context, h *Handle) bool {
	prev := h.View()
	start := View{State: ViewLoading}
	if prev.State == ViewReady {
		start = View{State: ViewReady, Tracking: prev.Tracking, Refreshing: true}
	}
	// A stopped handle refuses the start view; the provider is never called.
	if !p.publish(h, start) {
		return false
	}

	t, err := p.provider.GetTracking(ctx, p.orderID)
	if ctx.Err() != nil {
		return false
	}

	if err != nil {
		if prev.State == ViewReady {
			p.log.Warn("Tracking refresh failed, keeping last data", zap.Error(err))
			p.publish(h, View{State: ViewReady, Tracking: prev.Tracking})
			return prev.Tracking.Delivered()
		}
		p.log.Warn("Tracking fetch failed", zap.Error(err))
		p.publish(h, errorView(err))
		return false
	}

	p.publish(h, View{State: ViewReady, Tracking: t})
	if t.Delivered() {
		p.log.Info("Order delivered, auto refresh stopped")
		return true
	}
	return false
}

// publish stores v and notifies the listener unless the handle is stopped.
// publish stores and delivers v unless the handle is stopped, and reports whether it did.
func (p *Poller) publish(h *Handle, v View) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return false
	}
	h.view = v
	if p.onUpdate != nil {
		p.onUpdate(v)
	}
	return true
}

func errorView(err error) View {
	msg := server.MessageSomethingWentWrong
	if errors.Is(err, ports.ErrTrackingNotFound) {
		msg = "tracking_not_found"
	}
	return View{State: ViewError, Error: msg, Actions: []string{server.ActionRetry, server.ActionBack}}
}
