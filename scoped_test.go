package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

func TestScoped_AppliesBindingForDuration(t *testing.T) {
	c := container.New()
	c.Singleton("db", func(c *container.Container) (any, error) { return "real-db", nil })
	require.NoError(t, c.RegisterConstructor("TestDB", func() (string, error) { return "test-db", nil }))

	err := c.Scoped(map[string]any{"db": "TestDB"}, func(c *container.Container) error {
		v, err := c.Get("db")
		require.NoError(t, err)
		assert.Equal(t, "test-db", v)
		return nil
	})
	require.NoError(t, err)

	v, err := c.Get("db")
	require.NoError(t, err)
	assert.Equal(t, "real-db", v)
}

func TestScoped_RestoresOnCallbackError(t *testing.T) {
	c := container.New()
	c.Singleton("svc", func(c *container.Container) (any, error) { return "original", nil })

	boom := errors.New("boom")
	err := c.Scoped(map[string]any{"svc": "scoped"}, func(c *container.Container) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "original", v)
}

func TestScoped_RestoresOnPanic(t *testing.T) {
	c := container.New()
	c.Singleton("svc", func(c *container.Container) (any, error) { return "original", nil })

	func() {
		defer func() { recover() }()
		c.Scoped(map[string]any{"svc": "scoped"}, func(c *container.Container) error {
			panic("boom")
		})
	}()

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "original", v)
}

func TestScoped_RemovesBindingEntirelyWhenNotPreviouslyBound(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterConstructor("ScopedOnly", func() (string, error) { return "scoped-only", nil }))

	err := c.Scoped(map[string]any{"temp": "ScopedOnly"}, func(c *container.Container) error {
		v, err := c.Get("temp")
		require.NoError(t, err)
		assert.Equal(t, "scoped-only", v)
		return nil
	})
	require.NoError(t, err)

	assert.False(t, c.Has("temp"))
}
