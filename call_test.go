package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

type callDependency struct{ Name string }

func TestCall_AutowiresBoundParameters(t *testing.T) {
	c := container.New()
	dep := &callDependency{Name: "wired"}
	c.Singleton("*container_test.callDependency", func(c *container.Container) (any, error) { return dep, nil })

	fn := func(d *callDependency) string { return "got:" + d.Name }
	v, err := c.Call(fn, nil)
	require.NoError(t, err)
	assert.Equal(t, "got:wired", v)
}

func TestCall_OverridesTakePrecedenceOverAutowiring(t *testing.T) {
	c := container.New()
	c.Singleton("string", func(c *container.Container) (any, error) { return "autowired", nil })

	fn := func(s string) string { return s }
	v, err := c.Call(fn, map[int]any{0: "overridden"})
	require.NoError(t, err)
	assert.Equal(t, "overridden", v)
}

func TestCall_RejectsNonFunctionTarget(t *testing.T) {
	c := container.New()
	_, err := c.Call("not a function", nil)
	require.Error(t, err)
	var iu *container.InvalidUsageError
	require.ErrorAs(t, err, &iu)
}

func TestCall_PropagatesErrorReturnValue(t *testing.T) {
	c := container.New()
	fn := func() (int, error) { return 0, assert.AnError }
	_, err := c.Call(fn, nil)
	assert.ErrorIs(t, err, assert.AnError)
}
