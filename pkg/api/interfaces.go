// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"github.com/ssargent/w3stat/pkg/fingerprint"
	"github.com/ssargent/w3stat/pkg/storage"
)

// CacheStore is a fingerprint cache the server and the pipeline share
type CacheStore interface {
	ICache
	fingerprint.Cache
	Close() error
}

// CacheFactory opens fingerprint caches
type CacheFactory interface {
	// OpenCache opens the cache database in dir
	OpenCache(dir string, opts ...storage.Option) (CacheStore, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is cancelled
	StartServer(ctx context.Context, server *Server) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
