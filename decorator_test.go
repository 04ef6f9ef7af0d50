package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

func TestDecorate_RunsInAscendingPriorityOrder(t *testing.T) {
	c := container.New()
	c.Bind("logger", func(c *container.Container) (any, error) { return "base", nil })

	c.Decorate("logger", func(v any, c *container.Container) any { return v.(string) + "-high" }, 10)
	c.Decorate("logger", func(v any, c *container.Container) any { return v.(string) + "-low" }, 1)

	v, err := c.Get("logger")
	require.NoError(t, err)
	assert.Equal(t, "base-low-high", v)
}

func TestMiddleware_RunsAfterDecoratorsInFIFOOrder(t *testing.T) {
	c := container.New()
	c.Bind("pipeline", func(c *container.Container) (any, error) { return "x", nil })

	c.Decorate("pipeline", func(v any, c *container.Container) any { return v.(string) + "-dec" }, 0)
	c.Middleware("pipeline", func(v any, c *container.Container) any { return v.(string) + "-mid1" })
	c.Middleware("pipeline", func(v any, c *container.Container) any { return v.(string) + "-mid2" })

	v, err := c.Get("pipeline")
	require.NoError(t, err)
	assert.Equal(t, "x-dec-mid1-mid2", v)
}

func TestDecorate_DoesNotRunOnCachedSingletonSecondGet(t *testing.T) {
	c := container.New()
	calls := 0
	c.Singleton("svc", func(c *container.Container) (any, error) { return "v", nil })
	c.Decorate("svc", func(v any, c *container.Container) any {
		calls++
		return v
	}, 0)

	_, err := c.Get("svc")
	require.NoError(t, err)
	_, err = c.Get("svc")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestDecorate_CachedSingletonStaysDecoratedAcrossRepeatedGets(t *testing.T) {
	c := container.New()
	c.Singleton("svc", func(c *container.Container) (any, error) { return "v", nil })
	c.Decorate("svc", func(v any, c *container.Container) any { return v.(string) + "-decorated" }, 0)

	first, err := c.Get("svc")
	require.NoError(t, err)
	second, err := c.Get("svc")
	require.NoError(t, err)

	assert.Equal(t, "v-decorated", first)
	assert.Equal(t, first, second)
}
