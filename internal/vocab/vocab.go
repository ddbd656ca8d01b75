// Package vocab holds the controlled gemological vocabularies shared by the
// extraction and mapping layers. All tables are built once at init and are
// read-only afterwards.
package vocab

import (
	"regexp"
	"sort"
	"strings"
)

// Shapes is the canonical shape vocabulary, upper case. Multi-word names are
// matched with flexible internal whitespace.
var Shapes = []string{
	"ROUND",
	"ROUND MODIFIED BRILLIANT",
	"OVAL",
	"OVAL MODIFIED BRILLIANT",
	"PEAR",
	"PEAR BRILLIANT",
	"PEAR MODIFIED BRILLIANT",
	"MARQUISE",
	"HEART",
	"EMERALD",
	"SQUARE EMERALD",
	"ASSCHER",
	"PRINCESS",
	"CUSHION",
	"CUSHION BRILLIANT",
	"CUSHION MODIFIED",
	"RADIANT",
	"SQUARE RADIANT",
	"TRILLIANT",
	"TRIANGLE",
	"BAGUETTE",
	"TAPERED BAGUETTE",
	"HALF MOON",
	"HEXAGONAL",
	"OCTAGONAL",
	"PENTAGONAL",
	"HEPTAGONAL",
	"NONAGONAL",
	"DECAGONAL",
	"KITE",
	"SHIELD",
	"TRAPEZOID",
	"BULLET",
	"TAPERED BULLET",
	"ROSE",
	"OLD EUROPEAN",
	"OLD MINER",
	"EUROPEAN CUT",
	"BRIOLETTE",
	"CALF",
	"EPAULETTE",
	"FLANDERS",
	"LOZENGE",
	"RHOMBOID",
	"STAR",
	"SQUARE",
}

// ClarityGrades is the closed clarity ladder, best to worst.
var ClarityGrades = []string{"FL", "IF", "VVS1", "VVS2", "VS1", "VS2", "SI1", "SI2", "I1", "I2", "I3"}

// Labs is the set of accepted certification labs.
var Labs = []string{"GIA", "IGI", "GCAL"}

// LabGrownTypes is the set of accepted lab-grown subtypes.
var LabGrownTypes = []string{"HPHT", "CVD", "IIA"}

// cutMap normalizes spelled-out cut grades to their two-letter codes.
// Abbreviations map to themselves so already-normalized input passes through.
var cutMap = map[string]string{
	"EXCELLENT": "EX",
	"VERY GOOD": "VG",
	"GOOD":      "G",
	"FAIR":      "F",
	"POOR":      "P",
	"IDEAL":     "EX",
	"EX":        "EX",
	"VG":        "VG",
	"G":         "G",
	"F":         "F",
	"P":         "P",
}

// NormalizeCut maps a raw cut grade to its canonical two-letter code.
// Unknown values return "" so callers never store an out-of-vocabulary grade.
func NormalizeCut(raw string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(raw), " "))
	return cutMap[key]
}

// NormalizeShape collapses internal whitespace and upper-cases a matched
// shape name. It does not validate membership; the match patterns do that.
func NormalizeShape(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}

// IsClarity reports whether grade is on the clarity ladder.
func IsClarity(grade string) bool {
	for _, g := range ClarityGrades {
		if g == grade {
			return true
		}
	}
	return false
}

// IsLab reports whether lab is an accepted certification lab.
func IsLab(lab string) bool {
	for _, l := range Labs {
		if l == lab {
			return true
		}
	}
	return false
}

// ShapeAlternation returns a regexp alternation over the shape vocabulary.
// Longer names come first so e.g. "CUSHION MODIFIED" wins over "CUSHION",
// and internal spaces match any run of whitespace.
func ShapeAlternation() string {
	names := make([]string, len(Shapes))
	copy(names, Shapes)
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, n := range names {
		words := strings.Fields(regexp.QuoteMeta(n))
		parts[i] = strings.Join(words, `\s+`)
	}
	return strings.Join(parts, "|")
}

// ClarityAlternation returns a regexp alternation over the clarity ladder.
// VVS1 must precede VS1 in the pattern, which the declared order guarantees.
func ClarityAlternation() string {
	return strings.Join(ClarityGrades, "|")
}

// LabAlternation returns a regexp alternation over the certification labs.
func LabAlternation() string {
	return strings.Join(Labs, "|")
}
