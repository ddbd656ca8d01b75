package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemstore/internal/model"
)

func TestParseDescriptorOrderIndependence(t *testing.T) {
	inputs := []string{
		"Cut: N/A Color: D Clarity: IF",
		"Color: D Clarity: IF Cut: N/A",
		"Clarity: IF Cut: N/A Color: D",
	}

	for _, in := range inputs {
		g := ParseDescriptor(in)
		require.NotNil(t, g.Color, "input %q", in)
		assert.Equal(t, "D", *g.Color, "input %q", in)
		require.NotNil(t, g.Clarity, "input %q", in)
		assert.Equal(t, "IF", *g.Clarity, "input %q", in)
		assert.Nil(t, g.Cut, "input %q", in)
	}
}

func TestParseDescriptorBoundedValues(t *testing.T) {
	// The Shape value must not swallow the Color label even though nothing
	// but the label separates them.
	g := ParseDescriptor("Shape: Round Brilliant Color: E Clarity: VS1")
	require.NotNil(t, g.Color)
	assert.Equal(t, "E", *g.Color)
	require.NotNil(t, g.Clarity)
	assert.Equal(t, "VS1", *g.Clarity)
}

func TestParseDescriptorCutHandling(t *testing.T) {
	g := ParseDescriptor("Cut: Very Good Color: D")
	require.NotNil(t, g.Cut)
	assert.Equal(t, "Very Good", *g.Cut)

	// N/A in any case normalizes to nil.
	assert.Nil(t, ParseDescriptor("Cut: n/a Color: D").Cut)
	assert.Nil(t, ParseDescriptor("Cut: N/A Color: D").Cut)

	// An empty value normalizes to nil too.
	assert.Nil(t, ParseDescriptor("Cut: Color: D").Cut)
}

func TestParseDescriptorRepeatedLabel(t *testing.T) {
	g := ParseDescriptor("Color: D Color: J")
	require.NotNil(t, g.Color)
	assert.Equal(t, "D", *g.Color)
}

func TestParseDescriptorEmptyInput(t *testing.T) {
	assert.Equal(t, model.GradingAttributes{}, ParseDescriptor(""))
	assert.Equal(t, model.GradingAttributes{}, ParseDescriptor("   "))
	assert.Equal(t, model.GradingAttributes{}, ParseDescriptor("no labels here"))
}
