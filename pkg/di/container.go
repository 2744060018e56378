// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/w3stat/pkg/api" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	cacheFactory  api.CacheFactory
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		cacheFactory:  api.NewCacheFactory(),
		serverFactory: api.NewServerFactory(),
	}
}

// GetCacheFactory returns the fingerprint cache factory
func (c *Container) GetCacheFactory() api.CacheFactory {
	return c.cacheFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetCacheFactory allows overriding the cache factory (for testing)
func (c *Container) SetCacheFactory(factory api.CacheFactory) {
	c.cacheFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
