package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denosyscore/container"
)

type s3Filesystem struct{}
type localFilesystem struct{}

func TestWhen_GivesConcreteClassToConsumer(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterConstructor("S3Filesystem", func() (*s3Filesystem, error) { return &s3Filesystem{}, nil }))
	require.NoError(t, c.RegisterConstructor("PhotoController", func(fs any) (*photoController, error) {
		return &photoController{FS: fs}, nil
	}, container.WithAlternates(0, "Filesystem")))

	require.NoError(t, c.When("PhotoController").Needs("Filesystem").Give("S3Filesystem"))

	v, err := c.Get("PhotoController")
	require.NoError(t, err)
	pc := v.(*photoController)
	assert.IsType(t, &s3Filesystem{}, pc.FS)
}

type photoController struct{ FS any }

func TestWhen_GiveBeforeNeedsFailsInvalidUsage(t *testing.T) {
	c := container.New()
	err := c.When("Consumer").Give("X")
	require.Error(t, err)
	var iu *container.InvalidUsageError
	require.ErrorAs(t, err, &iu)
}

func TestWhen_DoesNotApplyOutsideTheConsumer(t *testing.T) {
	// Contextual overrides are keyed to the immediate consumer; a binding
	// registered against an unrelated consumer must never affect a direct
	// top-level Get of the same identifier.
	c := container.New()
	require.NoError(t, c.RegisterConstructor("Base", func() (string, error) { return "base-default", nil }))
	require.NoError(t, c.When("Outer").Needs("Base").Give("override-should-not-apply"))

	v, err := c.Get("Base")
	require.NoError(t, err)
	assert.Equal(t, "base-default", v)
}

func TestGiveConfigured_AppliesConfigureWhenSupported(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterConstructor("Widget", func() (*configurableWidget, error) {
		return &configurableWidget{}, nil
	}))
	require.NoError(t, c.RegisterConstructor("Consumer", func(w any) (*widgetConsumer, error) {
		return &widgetConsumer{W: w}, nil
	}, container.WithAlternates(0, "I")))

	require.NoError(t, c.When("Consumer").Needs("I").GiveConfigured("Widget", map[string]any{"size": 42}))

	v, err := c.Get("Consumer")
	require.NoError(t, err)
	wc := v.(*widgetConsumer)
	widget := wc.W.(*configurableWidget)
	assert.Equal(t, 42, widget.cfg["size"])
}

type configurableWidget struct {
	cfg map[string]any
}

func (w *configurableWidget) Configure(cfg map[string]any) { w.cfg = cfg }

type widgetConsumer struct{ W any }
