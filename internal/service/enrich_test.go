package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnricher() *EnrichmentService {
	return NewEnrichmentService(nil, NewTextExtractor(""))
}

func TestExtractGradingDescriptorOverlay(t *testing.T) {
	e := newTestEnricher()

	// "Internally Flawless" is off the clarity ladder, so only the
	// structured parse can pick it up.
	g := e.extractGrading("", "Color: D Clarity: Internally Flawless Cut: Very Good")
	require.NotNil(t, g.Color)
	assert.Equal(t, "D", *g.Color)
	require.NotNil(t, g.Clarity)
	assert.Equal(t, "Internally Flawless", *g.Clarity)
	require.NotNil(t, g.Cut)
	assert.Equal(t, "VG", *g.Cut, "descriptor cut grades normalize like heuristic ones")
}

func TestExtractGradingDescriptorCutNA(t *testing.T) {
	e := newTestEnricher()

	g := e.extractGrading("", "Color: D Cut: N/A")
	require.NotNil(t, g.Color)
	assert.Equal(t, "D", *g.Color)
	assert.Nil(t, g.Cut)
}

func TestExtractGradingMarkupWrappedDescriptor(t *testing.T) {
	e := newTestEnricher()

	g := e.extractGrading("", "<p>Color:&nbsp;E</p><p>Clarity: VS1</p>")
	require.NotNil(t, g.Color)
	assert.Equal(t, "E", *g.Color)
	require.NotNil(t, g.Clarity)
	assert.Equal(t, "VS1", *g.Clarity)
}

func TestExtractGradingWithoutDescriptorLabels(t *testing.T) {
	e := newTestEnricher()

	// No "Label:" segments anywhere, so the heuristic result passes
	// through untouched.
	g := e.extractGrading("1.5ct oval, color E", "")
	require.NotNil(t, g.Shape)
	assert.Equal(t, "OVAL", *g.Shape)
	require.NotNil(t, g.Color)
	assert.Equal(t, "E", *g.Color)
	require.NotNil(t, g.Carat)
	assert.Equal(t, "1.5", *g.Carat)
}
