package service

import (
	"math/rand"
	"sync"
	"time"

	"storefront/internal/features/payments/domain"
)

// RandomApprover approves a charge with a fixed probability.
type RandomApprover struct {
	rate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomApprover returns an approver accepting roughly rate of all charges.
// A zero seed picks one from the clock.
func NewRandomApprover(rate float64, seed int64) *RandomApprover {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomApprover{rate: rate, rnd: rand.New(rand.NewSource(seed))}
}

func (a *RandomApprover) Approve(domain.PaymentRequest) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rnd.Float64() < a.rate
}

// FixedApprover always gives the same answer.
type FixedApprover bool

func (f FixedApprover) Approve(domain.PaymentRequest) bool { return bool(f) }

// ApproverFunc adapts a function to the Approver port.
type ApproverFunc func(domain.PaymentRequest) bool

func (f ApproverFunc) Approve(req domain.PaymentRequest) bool { return f(req) }
