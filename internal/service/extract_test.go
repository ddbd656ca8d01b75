package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemstore/internal/model"
)

func TestExtractShapePrecedence(t *testing.T) {
	e := NewTextExtractor("")

	// A labeled multi-word shape wins over its shorter bare prefix.
	g := e.Extract("Shape: Cushion Modified", "")
	require.NotNil(t, g.Shape)
	assert.Equal(t, "CUSHION MODIFIED", *g.Shape)

	// Tier 2: bare name followed by a qualifier.
	g = e.Extract("1.50ct Cushion Cut ring", "")
	require.NotNil(t, g.Shape)
	assert.Equal(t, "CUSHION", *g.Shape)

	// Tier 3: bare unlabeled name anywhere.
	g = e.Extract("a lovely oval stone", "")
	require.NotNil(t, g.Shape)
	assert.Equal(t, "OVAL", *g.Shape)

	// Flexible internal whitespace in multi-word names.
	g = e.Extract("Shape:  Square   Emerald", "")
	require.NotNil(t, g.Shape)
	assert.Equal(t, "SQUARE EMERALD", *g.Shape)
}

func TestExtractCutNormalization(t *testing.T) {
	e := NewTextExtractor("")

	tests := []struct {
		raw  string
		want string
	}{
		{"Excellent", "EX"},
		{"Very Good", "VG"},
		{"Good", "G"},
		{"Fair", "F"},
		{"Poor", "P"},
		{"Ideal", "EX"},
		{"EX", "EX"},
		{"VG", "VG"},
		{"G", "G"},
		{"F", "F"},
		{"P", "P"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			g := e.Extract("Cut: "+tt.raw, "")
			require.NotNil(t, g.Cut, "no cut extracted from %q", tt.raw)
			assert.Equal(t, tt.want, *g.Cut)
		})
	}
}

func TestExtractCaratFallback(t *testing.T) {
	// The primary unit-suffixed pattern alone does not match a labeled
	// bare value...
	_, ok := firstMatch("Carat: 1.20", caratRules[:1])
	assert.False(t, ok, "unit-suffixed pattern should not match a bare labeled value")

	// ...the label fallback does.
	v, ok := firstMatch("Carat: 1.20", caratRules[1:])
	require.True(t, ok)
	assert.Equal(t, "1.20", v)

	// Through the full rule list the fallback is the one that fires.
	e := NewTextExtractor("")
	g := e.Extract("Carat: 1.20", "")
	require.NotNil(t, g.Carat)
	assert.Equal(t, "1.20", *g.Carat)

	// Unit-suffixed values take the primary path.
	g = e.Extract("2.01 ct round diamond", "")
	require.NotNil(t, g.Carat)
	assert.Equal(t, "2.01", *g.Carat)
}

func TestExtractDiamondType(t *testing.T) {
	e := NewTextExtractor("")

	tests := []struct {
		text string
		want string
	}{
		{"Lab Grown 1.5ct Round", model.DiamondTypeLabGrown},
		{"lab-grown diamond", model.DiamondTypeLabGrown},
		{"IGI certified lab diamond", model.DiamondTypeLabGrown},
		{"1.5ct Round Diamond", model.DiamondTypeNatural},
		{"collaboration piece", model.DiamondTypeNatural}, // no whole-word "lab"
	}

	for _, tt := range tests {
		g := e.Extract(tt.text, "")
		require.NotNil(t, g.DiamondType, "text %q", tt.text)
		assert.Equal(t, tt.want, *g.DiamondType, "text %q", tt.text)
	}

	// The committed default is configurable.
	unknown := NewTextExtractor("Lab-Grown")
	g := unknown.Extract("1.5ct Round Diamond", "")
	require.NotNil(t, g.DiamondType)
	assert.Equal(t, model.DiamondTypeLabGrown, *g.DiamondType)
}

func TestExtractColorClarityLabSubtype(t *testing.T) {
	e := NewTextExtractor("")

	g := e.Extract("Color: F Clarity: VVS2 GIA Certified HPHT", "")
	require.NotNil(t, g.Color)
	assert.Equal(t, "F", *g.Color)
	require.NotNil(t, g.Clarity)
	assert.Equal(t, "VVS2", *g.Clarity)
	require.NotNil(t, g.Lab)
	assert.Equal(t, "GIA", *g.Lab)
	require.NotNil(t, g.LabGrownType)
	assert.Equal(t, "HPHT", *g.LabGrownType)

	// Color letters outside D-J never match.
	g = e.Extract("Color: K", "")
	assert.Nil(t, g.Color)

	// Values outside the clarity ladder never match.
	g = e.Extract("Clarity: VVS3", "")
	assert.Nil(t, g.Clarity)

	// Any IIA spelling folds onto the canonical code.
	g = e.Extract("Type IIA lab grown", "")
	require.NotNil(t, g.LabGrownType)
	assert.Equal(t, "IIA", *g.LabGrownType)
}

func TestExtractDescriptionPriority(t *testing.T) {
	e := NewTextExtractor("")

	// Description and title disagree; the description wins.
	g := e.Extract("Color: E", "<p>Color:&nbsp;D</p>")
	require.NotNil(t, g.Color)
	assert.Equal(t, "D", *g.Color)
}

func TestExtractStripsMarkup(t *testing.T) {
	e := NewTextExtractor("")

	g := e.Extract("", "<div><b>Shape:</b>&nbsp;Pear</div><br/>Clarity: SI1")
	require.NotNil(t, g.Shape)
	assert.Equal(t, "PEAR", *g.Shape)
	require.NotNil(t, g.Clarity)
	assert.Equal(t, "SI1", *g.Clarity)
}

func TestExtractEmptyInput(t *testing.T) {
	e := NewTextExtractor("")

	for _, tt := range []struct{ title, desc string }{
		{"", ""},
		{"   ", "  \t "},
		{"", "<p>&nbsp;</p>"},
	} {
		g := e.Extract(tt.title, tt.desc)
		assert.Equal(t, model.GradingAttributes{}, g)
	}
}
