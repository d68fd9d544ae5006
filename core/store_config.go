package core

import "go.uber.org/zap"

const defaultCacheMaxCost = 1 << 20

type StoreConfig struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool

	CacheEnabled bool
	// CacheMaxCost bounds the tally cache; every cached tally costs 1.
	CacheMaxCost int64

	Logger *zap.Logger
}

func DefaultStoreConfig(path string) *StoreConfig {
	return &StoreConfig{
		Path:         path,
		CacheEnabled: true,
		CacheMaxCost: defaultCacheMaxCost,
	}
}

// TestStoreConfig keeps everything in memory.
func TestStoreConfig() *StoreConfig {
	return &StoreConfig{
		InMemory:     true,
		CacheEnabled: true,
		CacheMaxCost: defaultCacheMaxCost,
	}
}

func (config *StoreConfig) logger() *zap.Logger {
	if config.Logger == nil {
		return zap.NewNop()
	}
	return config.Logger
}

func (config *StoreConfig) cacheMaxCost() int64 {
	if config.CacheMaxCost <= 0 {
		return defaultCacheMaxCost
	}
	return config.CacheMaxCost
}
