package latency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNone(t *testing.T) {
	s := None()
	assert.Zero(t, s.Next())
	assert.NoError(t, s.Wait(context.Background()))

	var nilSim *Simulator
	assert.Zero(t, nilSim.Next())
	assert.NoError(t, nilSim.Wait(context.Background()))
}

func TestNext_WithinRange(t *testing.T) {
	s := New(10*time.Millisecond, 20*time.Millisecond)
	for i := 0; i < 100; i++ {
		d := s.Next()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 20*time.Millisecond)
	}
}

func TestNew_InvertedRange(t *testing.T) {
	s := New(5*time.Millisecond, time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, s.Next())
}

func TestFixed(t *testing.T) {
	s := Fixed(3 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, s.Next())

	start := time.Now()
	assert.NoError(t, s.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
}

func TestWait_Cancelled(t *testing.T) {
	s := Fixed(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
