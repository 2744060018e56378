// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/ssargent/w3stat/pkg/storage"
)

// DefaultCacheFactory opens pebble-backed caches
type DefaultCacheFactory struct{}

// NewCacheFactory creates a new cache factory
func NewCacheFactory() CacheFactory {
	return &DefaultCacheFactory{}
}

// OpenCache opens the cache database in dir
func (f *DefaultCacheFactory) OpenCache(dir string, opts ...storage.Option) (CacheStore, error) {
	cache, err := storage.Open(dir, opts...)
	if err != nil {
		return nil, err
	}
	return cache, nil
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server
func (s *DefaultServerStarter) StartServer(ctx context.Context, server *Server) error {
	return StartServer(ctx, server)
}
