package storage

import (
	"fmt"

	"storefront/internal/core/config"
)

// Open builds the Store selected by the configuration.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		s, err := NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
