package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

func TestTag_ResolveAllReturnsEveryTaggedService(t *testing.T) {
	c := container.New()
	c.Singleton("CPUReport", func(c *container.Container) (any, error) { return "cpu", nil })
	c.Singleton("MemReport", func(c *container.Container) (any, error) { return "mem", nil })
	c.Tag([]string{"CPUReport", "MemReport"}, "reports")

	reports, err := c.ResolveAll("reports")
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"cpu", "mem"}, reports)
}

func TestResolveAll_FailsNotFoundWhenNoCandidates(t *testing.T) {
	c := container.New()
	_, err := c.ResolveAll("nothing-registered")
	require.Error(t, err)
	var nf *container.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestResolveAll_SkipsFailingCandidatesAndReturnsRest(t *testing.T) {
	c := container.New()
	c.Bind("good", func(c *container.Container) (any, error) { return "ok", nil })
	c.Bind("bad", func(c *container.Container) (any, error) { return nil, assert.AnError })
	c.Tag([]string{"good", "bad"}, "mixed")

	results, err := c.ResolveAll("mixed")
	require.NoError(t, err)
	assert.Equal(t, []any{"ok"}, results)
}

func TestResolveAll_TotalFailureReturnsAggregatedError(t *testing.T) {
	c := container.New()
	c.Bind("bad1", func(c *container.Container) (any, error) { return nil, assert.AnError })
	c.Bind("bad2", func(c *container.Container) (any, error) { return nil, assert.AnError })
	c.Tag([]string{"bad1", "bad2"}, "all-bad")

	_, err := c.ResolveAll("all-bad")
	require.Error(t, err)
}

func TestMultiBind_OrdersByDescendingPriority(t *testing.T) {
	c := container.New()
	c.Bind("low", func(c *container.Container) (any, error) { return "low", nil })
	c.Bind("high", func(c *container.Container) (any, error) { return "high", nil })
	c.MultiBind("pipeline", "low", 1)
	c.MultiBind("pipeline", "high", 10)

	results, err := c.ResolveAll("pipeline")
	require.NoError(t, err)
	assert.Equal(t, []any{"high", "low"}, results)
}

func TestResolveAll_AutoDiscoveryDisabledByDefault(t *testing.T) {
	c := container.New()
	c.Bind("concreteImpl", func(c *container.Container) (any, error) { return "impl", nil })
	c.RegisterConcrete("SomeInterface", "concreteImpl")

	_, err := c.ResolveAll("SomeInterface")
	require.Error(t, err)
}

func TestResolveAll_AutoDiscoveryWhenEnabled(t *testing.T) {
	c := container.New(container.WithAutoDiscovery(true))
	c.Bind("concreteImpl", func(c *container.Container) (any, error) { return "impl", nil })
	c.RegisterConcrete("SomeInterface", "concreteImpl")

	results, err := c.ResolveAll("SomeInterface")
	require.NoError(t, err)
	assert.Equal(t, []any{"impl"}, results)
}

func TestTagged_ReturnsEveryTaggedServiceInInsertionOrder(t *testing.T) {
	c := container.New()
	c.Bind("first", func(c *container.Container) (any, error) { return "1", nil })
	c.Bind("second", func(c *container.Container) (any, error) { return "2", nil })
	c.Tag([]string{"first", "second"}, "handlers")

	got := c.Tagged("handlers")
	assert.Equal(t, []any{"1", "2"}, got)
}

func TestTagged_SkipsFailingMembersInsteadOfFailingTheBatch(t *testing.T) {
	c := container.New()
	c.Bind("good", func(c *container.Container) (any, error) { return "ok", nil })
	c.Bind("bad", func(c *container.Container) (any, error) { return nil, assert.AnError })
	c.Tag([]string{"good", "bad"}, "handlers")

	got := c.Tagged("handlers")
	assert.Equal(t, []any{"ok"}, got)
}

func TestTagged_ReturnsEmptySliceWhenEveryMemberFails(t *testing.T) {
	c := container.New()
	c.Bind("bad1", func(c *container.Container) (any, error) { return nil, assert.AnError })
	c.Bind("bad2", func(c *container.Container) (any, error) { return nil, assert.AnError })
	c.Tag([]string{"bad1", "bad2"}, "handlers")

	got := c.Tagged("handlers")
	assert.Empty(t, got)
}
