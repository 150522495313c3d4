package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/core/logger"

	"go.uber.org/zap"
)

// LoadList decodes the JSON array stored under key.
// A missing key or an undecodable blob yields an empty list; the latter is logged.
func LoadList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		logger.Get().Warn("Discarding undecodable collection",
			zap.String("key", key),
			zap.Error(err),
		)
		return []T{}, nil
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// SaveList replaces the JSON array stored under key.
func SaveList[T any](ctx context.Context, s Store, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// LoadValue decodes the JSON value stored under key into out.
// It reports false when the key is missing or the blob does not decode.
func LoadValue(ctx context.Context, s Store, key string, out any) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		logger.Get().Warn("Discarding undecodable value",
			zap.String("key", key),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

// SaveValue stores v as JSON under key.
func SaveValue(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
