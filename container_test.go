package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

// ── construction and self-registration ────────────────────────────────────

func TestNew_SelfRegistersAsContainer(t *testing.T) {
	c := container.New()
	v, err := c.Get("container")
	require.NoError(t, err)
	assert.Same(t, c, v)
}

// ── Bind / Singleton / Instance ───────────────────────────────────────────

func TestBind_ReturnsNewInstanceEachGet(t *testing.T) {
	c := container.New()
	n := 0
	c.Bind("counter", func(c *container.Container) (any, error) {
		n++
		return n, nil
	})

	first, err := c.Get("counter")
	require.NoError(t, err)
	second, err := c.Get("counter")
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestSingleton_CachesFirstResolution(t *testing.T) {
	c := container.New()
	calls := 0
	c.Singleton("db", func(c *container.Container) (any, error) {
		calls++
		return &struct{ N int }{N: calls}, nil
	})

	first, err := c.Get("db")
	require.NoError(t, err)
	second, err := c.Get("db")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestInstance_ReturnsExactValue(t *testing.T) {
	c := container.New()
	cfg := map[string]string{"env": "test"}
	require.NoError(t, c.Instance("config", cfg))

	v, err := c.Get("config")
	require.NoError(t, err)
	assert.Equal(t, cfg, v)
}

func TestInstance_TypeChecksAgainstDeclaredInterface(t *testing.T) {
	c := container.New()
	c.DeclareInterface("logger", (*interface{ Log(string) })(nil))

	err := c.Instance("logger", "not a logger")
	require.Error(t, err)

	var mismatch *container.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestRebind_DropsAliasTargetingIt(t *testing.T) {
	c := container.New()
	c.Singleton("cache", func(c *container.Container) (any, error) { return "v1", nil })
	require.NoError(t, c.Alias("cacheManager", "cache"))

	c.Bind("cache", func(c *container.Container) (any, error) { return "v2", nil })

	_, err := c.Get("cacheManager")
	require.Error(t, err)
	var nf *container.NotFoundError
	require.ErrorAs(t, err, &nf)
}

// ── Alias ──────────────────────────────────────────────────────────────────

func TestAlias_ResolvesThroughToCanonical(t *testing.T) {
	c := container.New()
	c.Singleton("cache", func(c *container.Container) (any, error) { return "redis", nil })
	require.NoError(t, c.Alias("cacheManager", "cache"))

	v, err := c.Get("cacheManager")
	require.NoError(t, err)
	assert.Equal(t, "redis", v)
}

func TestAlias_FailsNotFoundForUnboundTarget(t *testing.T) {
	c := container.New()
	err := c.Alias("x", "unbound")
	require.Error(t, err)
	var nf *container.NotFoundError
	require.ErrorAs(t, err, &nf)
}

// ── Extend ─────────────────────────────────────────────────────────────────

func TestExtend_WrapsConstructedInstance(t *testing.T) {
	c := container.New()
	c.Bind("greeting", func(c *container.Container) (any, error) { return "hi", nil })
	require.NoError(t, c.Extend("greeting", func(v any, c *container.Container) any {
		return v.(string) + "!"
	}))

	v, err := c.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi!", v)
}

func TestExtend_FailsNotFoundWhenUnbound(t *testing.T) {
	c := container.New()
	err := c.Extend("nope", func(v any, c *container.Container) any { return v })
	require.Error(t, err)
}

// ── Has / Forget ───────────────────────────────────────────────────────────

func TestHas_ReportsBoundIdentifier(t *testing.T) {
	c := container.New()
	assert.False(t, c.Has("svc"))
	c.Bind("svc", func(c *container.Container) (any, error) { return 1, nil })
	assert.True(t, c.Has("svc"))
}

func TestForget_RemovesBindingAndInstance(t *testing.T) {
	c := container.New()
	c.Singleton("svc", func(c *container.Container) (any, error) { return 1, nil })
	_, err := c.Get("svc")
	require.NoError(t, err)

	c.Forget("svc")
	assert.False(t, c.Has("svc"))
}

// ── Validate ───────────────────────────────────────────────────────────────

func TestValidate_AggregatesEveryBindingFailure(t *testing.T) {
	c := container.New()
	c.Bind("good", func(c *container.Container) (any, error) { return 1, nil })
	c.Bind("bad", func(c *container.Container) (any, error) {
		return nil, assert.AnError
	})

	err := c.Validate()
	require.Error(t, err)
}

func TestValidate_PassesWhenEveryBindingResolves(t *testing.T) {
	c := container.New()
	c.Bind("a", func(c *container.Container) (any, error) { return 1, nil })
	c.Bind("b", func(c *container.Container) (any, error) { return 2, nil })

	assert.NoError(t, c.Validate())
}
