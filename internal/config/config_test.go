package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(`
log:
  level: debug
frame:
  interval: 20ms
physics:
  gravity: [0, -50, 0]
  sticky_simulation: true
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 20*time.Millisecond, c.Frame.Interval)
	assert.Equal(t, [3]float64{0, -50, 0}, c.Physics.Gravity)
	assert.True(t, c.Physics.StickySimulation)
	assert.InDelta(t, 1.0/60.0, c.Physics.FixedStep, 1e-12)
}

func TestLoadYAMLEmpty(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidate(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("frame:\n  interval: 0s\n"))
	assert.ErrorIs(t, err, ErrInvalidFrameInterval)

	_, err = LoadYAML(strings.NewReader("physics:\n  fixed_step: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidFixedStep)
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
}
