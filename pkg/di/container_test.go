package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/w3stat/pkg/api"
)

type stubStarter struct{ called bool }

func (s *stubStarter) StartServer(ctx context.Context, server *api.Server) error {
	s.called = true
	return nil
}

type stubServerFactory struct{ starter *stubStarter }

func (f stubServerFactory) CreateServerStarter() api.ServerStarter { return f.starter }

func TestNewContainer(t *testing.T) {
	c := NewContainer()

	assert.IsType(t, &api.DefaultCacheFactory{}, c.GetCacheFactory())
	assert.IsType(t, &api.DefaultServerFactory{}, c.GetServerFactory())
	assert.IsType(t, &api.DefaultServerStarter{}, c.GetServerFactory().CreateServerStarter())
}

func TestContainer_CacheFactoryOpens(t *testing.T) {
	c := NewContainer()

	cache, err := c.GetCacheFactory().OpenCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	defer cache.Close()

	entries, err := cache.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestContainer_Overrides(t *testing.T) {
	c := NewContainer()
	starter := &stubStarter{}
	c.SetServerFactory(stubServerFactory{starter: starter})

	err := c.GetServerFactory().CreateServerStarter().StartServer(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, starter.called)

	factory := api.NewCacheFactory()
	c.SetCacheFactory(factory)
	assert.Same(t, factory, c.GetCacheFactory())
}
