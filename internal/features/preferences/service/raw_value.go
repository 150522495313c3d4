package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/core/storage"

	"go.uber.org/zap"
)

// rawValue is a single string preference stored unquoted under key.
// Missing or unknown stored values read as def.
type rawValue[T ~string] struct {
	store storage.Store
	key   string
	def   T
	valid func(T) bool
	log   *zap.Logger

	mu     sync.Mutex
	value  T
	loaded bool
}

func (r *rawValue[T]) load(ctx context.Context) error {
	r.value = r.def
	data, err := r.store.Get(ctx, r.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return fmt.Errorf("service: failed to read %s: %w", r.key, err)
	case r.valid(T(data)):
		r.value = T(data)
	default:
		r.log.Warn("Ignoring unknown stored preference", zap.String("key", r.key), zap.ByteString("value", data))
	}
	r.loaded = true
	return nil
}

func (r *rawValue[T]) get(ctx context.Context) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		if err := r.load(ctx); err != nil {
			return r.def, err
		}
	}
	return r.value, nil
}

func (r *rawValue[T]) set(ctx context.Context, v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, v)
}

// update reads the current value, applies fn and stores the result.
func (r *rawValue[T]) update(ctx context.Context, fn func(T) T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		if err := r.load(ctx); err != nil {
			return r.def, err
		}
	}
	next := fn(r.value)
	if err := r.write(ctx, next); err != nil {
		return r.value, err
	}
	return next, nil
}

func (r *rawValue[T]) write(ctx context.Context, v T) error {
	if err := r.store.Set(ctx, r.key, []byte(v)); err != nil {
		return fmt.Errorf("service: failed to persist %s: %w", r.key, err)
	}
	r.value = v
	r.loaded = true
	return nil
}

func (r *rawValue[T]) reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}
