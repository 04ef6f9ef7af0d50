package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

type widget struct {
	Name    string
	Enabled bool
}

func TestResolve_BuiltinParamUsesDefaultWhenUnresolvable(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterConstructor("Widget", func(name string) (*widget, error) {
		return &widget{Name: name}, nil
	}, container.WithDefault(0, "default-name")))
	c.Bind("Widget", nil)

	v, err := c.Get("Widget")
	require.NoError(t, err)
	assert.Equal(t, "default-name", v.(*widget).Name)
}

func TestResolve_BuiltinParamWithoutDefaultIsUnresolvable(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterConstructor("Widget", func(name string) (*widget, error) {
		return &widget{Name: name}, nil
	}))
	c.Bind("Widget", nil)

	_, err := c.Get("Widget")
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrUnresolvable)
}

type optionalDep struct{}

func TestResolve_NullableNamedParamGetsZeroValueWhenUnbound(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterConstructor("Consumer", func(dep *optionalDep) (*struct{ Dep *optionalDep }, error) {
		return &struct{ Dep *optionalDep }{Dep: dep}, nil
	}))
	c.Bind("Consumer", nil)

	v, err := c.Get("Consumer")
	require.NoError(t, err)
	assert.Nil(t, v.(*struct{ Dep *optionalDep }).Dep)
}

func TestGetDependencies_ListsNamedAndUnionParams(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterConstructor("Service", func(repo any, cache any) (*struct{}, error) {
		return &struct{}{}, nil
	}, container.WithAlternates(0, "Repo"), container.WithAlternates(1, "CacheA", "CacheB")))
	c.Bind("Service", nil)

	deps := c.GetDependencies("Service")
	assert.Contains(t, deps, "Repo")
	assert.Contains(t, deps, "CacheA")
	assert.Contains(t, deps, "CacheB")
}

func TestResolve_SharedBindingConstructsOnlyOnce(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.RegisterConstructor("Shared", func() (*widget, error) {
		calls++
		return &widget{Name: "s"}, nil
	}))
	c.Singleton("Shared", nil)

	first, err := c.Get("Shared")
	require.NoError(t, err)
	second, err := c.Get("Shared")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}
