package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

func TestLazy_DoesNotResolveUntilFirstUse(t *testing.T) {
	c := container.New()
	calls := 0
	c.Bind("heavy", func(c *container.Container) (any, error) {
		calls++
		return "built", nil
	})

	proxy := c.Lazy("heavy")
	assert.Equal(t, 0, calls)
	assert.False(t, proxy.IsResolved())

	v := proxy.GetInstance()
	assert.Equal(t, "built", v)
	assert.Equal(t, 1, calls)
	assert.True(t, proxy.IsResolved())
}

func TestLazy_MemoizesAcrossCalls(t *testing.T) {
	c := container.New()
	calls := 0
	c.Bind("svc", func(c *container.Container) (any, error) {
		calls++
		return calls, nil
	})

	proxy := c.Lazy("svc")
	first := proxy.GetInstance()
	second := proxy.GetInstance()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestLazy_GetAbstractReturnsOriginalIdentifier(t *testing.T) {
	c := container.New()
	proxy := c.Lazy("whatever")
	assert.Equal(t, "whatever", proxy.GetAbstract())
}

func TestLazy_ResolveSurfacesError(t *testing.T) {
	c := container.New()
	proxy := c.Lazy("unbound-and-unregistered")

	_, err := proxy.Resolve()
	require.Error(t, err)
	assert.True(t, proxy.IsResolved())
}
