package service

import (
	"regexp"
	"strings"

	"gemstore/internal/model"
	"gemstore/internal/vocab"
)

// matchRule is one (pattern, tier) entry of an ordered rule list. Rules are
// evaluated in slice order; the first hit wins and later tiers are never
// consulted.
type matchRule struct {
	tier int
	re   *regexp.Regexp
}

// firstMatch runs an ordered rule list over text and returns the first
// captured value.
func firstMatch(text string, rules []matchRule) (string, bool) {
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// label is the spacing- and punctuation-tolerant gap between a field label
// and its value.
const label = `\b[\s:=-]*`

var (
	markupTagRe  = regexp.MustCompile(`<[^>]*>`)
	htmlEntityRe = regexp.MustCompile(`&(?:nbsp|ensp|emsp|thinsp|amp|quot|#\d+);`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	labGrownRe = regexp.MustCompile(`(?i)\blab(?:[\s-]grown)?\b`)

	colorRules = []matchRule{
		{1, regexp.MustCompile(`(?i)\bcolor` + label + `([D-J])\b`)},
	}
	clarityRules = []matchRule{
		{1, regexp.MustCompile(`(?i)\bclarity` + label + `(` + vocab.ClarityAlternation() + `)\b`)},
	}
	cutRules = []matchRule{
		{1, regexp.MustCompile(`(?i)\bcut` + label + `(excellent|very\s+good|good|fair|poor|ideal|ex|vg|g|f|p)\b`)},
	}
	caratRules = []matchRule{
		{1, regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:ct|carats?|karats?)\b`)},
		{2, regexp.MustCompile(`(?i)\bcarats?` + label + `(\d+(?:\.\d+)?)`)},
	}
	shapeRules = []matchRule{
		{1, regexp.MustCompile(`(?i)\bshape` + label + `(` + vocab.ShapeAlternation() + `)\b`)},
		{2, regexp.MustCompile(`(?i)\b(` + vocab.ShapeAlternation() + `)\s+(?:cut|shape|diamond)s?\b`)},
		{3, regexp.MustCompile(`(?i)\b(` + vocab.ShapeAlternation() + `)\b`)},
	}
	labRules = []matchRule{
		{1, regexp.MustCompile(`(?i)\b(` + vocab.LabAlternation() + `)\b(?:\s+(?:certified|certificate|report))?`)},
	}
	subtypeRules = []matchRule{
		{1, regexp.MustCompile(`(?i)\b(HPHT|CVD|Type\s+IIA|IIA)\b`)},
	}
)

// TextExtractor pulls grading attributes out of unstructured supplier text.
// Every field is independently optional; nothing it cannot match against the
// controlled vocabularies is ever guessed.
type TextExtractor struct {
	// defaultType is committed when no lab keyword appears in the text.
	// Suppliers omitting the word "lab" on a lab-grown stone will be
	// misclassified; the default is configurable for that reason.
	defaultType string
}

// NewTextExtractor creates an extractor. An empty defaultType means Natural.
func NewTextExtractor(defaultType string) *TextExtractor {
	if defaultType == "" {
		defaultType = model.DiamondTypeNatural
	}
	return &TextExtractor{defaultType: defaultType}
}

// Extract parses a title and a markup-bearing description. The description
// comes first in the scanned text so its matches win over the title's on
// ambiguous input. Empty input yields an all-nil result.
func (e *TextExtractor) Extract(title, description string) model.GradingAttributes {
	text := strings.TrimSpace(cleanMarkup(description) + " " + cleanMarkup(title))
	if text == "" {
		return model.GradingAttributes{}
	}

	var g model.GradingAttributes

	diamondType := e.defaultType
	if labGrownRe.MatchString(text) {
		diamondType = model.DiamondTypeLabGrown
	}
	g.DiamondType = &diamondType

	if v, ok := firstMatch(text, colorRules); ok {
		color := strings.ToUpper(v)
		g.Color = &color
	}
	if v, ok := firstMatch(text, clarityRules); ok {
		clarity := strings.ToUpper(v)
		g.Clarity = &clarity
	}
	if v, ok := firstMatch(text, cutRules); ok {
		if cut := vocab.NormalizeCut(v); cut != "" {
			g.Cut = &cut
		}
	}
	if v, ok := firstMatch(text, caratRules); ok {
		carat := v
		g.Carat = &carat
	}
	if v, ok := firstMatch(text, shapeRules); ok {
		shape := vocab.NormalizeShape(v)
		g.Shape = &shape
	}
	if v, ok := firstMatch(text, labRules); ok {
		lab := strings.ToUpper(v)
		g.Lab = &lab
	}
	if v, ok := firstMatch(text, subtypeRules); ok {
		g.LabGrownType = normalizeSubtype(v)
	}

	return g
}

// cleanMarkup strips tags and named whitespace entities, then collapses
// repeated whitespace.
func cleanMarkup(s string) string {
	s = markupTagRe.ReplaceAllString(s, " ")
	s = htmlEntityRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// normalizeSubtype folds every IIA spelling onto the canonical code.
func normalizeSubtype(v string) *string {
	out := strings.ToUpper(v)
	if strings.Contains(out, "IIA") {
		out = "IIA"
	}
	return &out
}
