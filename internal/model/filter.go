package model

import (
	"net/url"
	"strconv"
)

// Range is a closed numeric interval on one filter facet. Invariant:
// Min <= Max, both inside the facet's domain bounds.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Default (and domain) bounds per range facet. A range equal to its default
// is considered unset for serialization purposes.
var (
	DefaultCarat         = Range{Min: 0, Max: 10}
	DefaultTable         = Range{Min: 0, Max: 100}
	DefaultDepth         = Range{Min: 0, Max: 100}
	DefaultRatio         = Range{Min: 0, Max: 5}
	DefaultLength        = Range{Min: 0, Max: 30}
	DefaultWidth         = Range{Min: 0, Max: 30}
	DefaultHeight        = Range{Min: 0, Max: 20}
	DefaultCrownAngle    = Range{Min: 0, Max: 45}
	DefaultPavilionAngle = Range{Min: 0, Max: 60}
)

// FilterState is the multi-dimensional product filter. It is constructed
// fresh per request from decoded parameters and never mutated afterwards;
// a changed filter produces a new state.
type FilterState struct {
	Shapes            []string `json:"shapes,omitempty"`
	Labs              []string `json:"labs,omitempty"`
	LabGrownTypes     []string `json:"lab_grown_types,omitempty"`
	CertificateNumber string   `json:"certificate_number,omitempty"`
	Colors            []string `json:"colors,omitempty"`
	Clarities         []string `json:"clarities,omitempty"`
	Cuts              []string `json:"cuts,omitempty"`
	PriceRanges       []string `json:"price_ranges,omitempty"`
	Fluorescence      []string `json:"fluorescence,omitempty"`
	Polish            []string `json:"polish,omitempty"`
	Symmetry          []string `json:"symmetry,omitempty"`
	GirdleThickness   []string `json:"girdle_thickness,omitempty"`

	Carat         Range `json:"carat"`
	Table         Range `json:"table"`
	Depth         Range `json:"depth"`
	Ratio         Range `json:"ratio"`
	Length        Range `json:"length"`
	Width         Range `json:"width"`
	Height        Range `json:"height"`
	CrownAngle    Range `json:"crown_angle"`
	PavilionAngle Range `json:"pavilion_angle"`
}

// Param is one flat key-value parameter of the presentation-layer contract.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// setFacet binds a repeating parameter key to its slice in FilterState.
type setFacet struct {
	key string
	get func(*FilterState) *[]string
}

// rangeFacet binds a min/max parameter pair to its Range and default bounds.
type rangeFacet struct {
	minKey, maxKey string
	def            Range
	get            func(*FilterState) *Range
}

// Facet tables binding parameter keys to their FilterState fields.
// DecodeFilterState walks them directly; Encode walks encodeOrder, which
// indexes into them, so the serialized key order cannot drift from the
// bindings.
var setFacets = []setFacet{
	{"shape", func(s *FilterState) *[]string { return &s.Shapes }},
	{"certification", func(s *FilterState) *[]string { return &s.Labs }},
	{"labGrownType", func(s *FilterState) *[]string { return &s.LabGrownTypes }},
	{"color", func(s *FilterState) *[]string { return &s.Colors }},
	{"clarity", func(s *FilterState) *[]string { return &s.Clarities }},
	{"cut", func(s *FilterState) *[]string { return &s.Cuts }},
	{"priceRange", func(s *FilterState) *[]string { return &s.PriceRanges }},
	{"fluorescence", func(s *FilterState) *[]string { return &s.Fluorescence }},
	{"polish", func(s *FilterState) *[]string { return &s.Polish }},
	{"symmetry", func(s *FilterState) *[]string { return &s.Symmetry }},
	{"girdleThickness", func(s *FilterState) *[]string { return &s.GirdleThickness }},
}

var rangeFacets = []rangeFacet{
	{"minCarat", "maxCarat", DefaultCarat, func(s *FilterState) *Range { return &s.Carat }},
	{"minTable", "maxTable", DefaultTable, func(s *FilterState) *Range { return &s.Table }},
	{"minDepth", "maxDepth", DefaultDepth, func(s *FilterState) *Range { return &s.Depth }},
	{"minRatio", "maxRatio", DefaultRatio, func(s *FilterState) *Range { return &s.Ratio }},
	{"minLength", "maxLength", DefaultLength, func(s *FilterState) *Range { return &s.Length }},
	{"minWidth", "maxWidth", DefaultWidth, func(s *FilterState) *Range { return &s.Width }},
	{"minHeight", "maxHeight", DefaultHeight, func(s *FilterState) *Range { return &s.Height }},
	{"minCrownAngle", "maxCrownAngle", DefaultCrownAngle, func(s *FilterState) *Range { return &s.CrownAngle }},
	{"minPavilionAngle", "maxPavilionAngle", DefaultPavilionAngle, func(s *FilterState) *Range { return &s.PavilionAngle }},
}

// encodeOrder is the parameter contract's key sequence. Set facets appear
// under their own key, range facets under their min key (the max key always
// follows immediately), and certificateNumber is the one scalar.
var encodeOrder = []string{
	"shape", "certification", "labGrownType", "certificateNumber",
	"color", "clarity", "cut", "priceRange",
	"minCarat", "fluorescence", "minTable", "minDepth",
	"polish", "symmetry",
	"minRatio", "minLength", "minWidth", "minHeight",
	"minCrownAngle", "minPavilionAngle",
	"girdleThickness",
}

var (
	setFacetByKey   = make(map[string]setFacet, len(setFacets))
	rangeFacetByMin = make(map[string]rangeFacet, len(rangeFacets))
)

func init() {
	for _, f := range setFacets {
		setFacetByKey[f.key] = f
	}
	for _, f := range rangeFacets {
		rangeFacetByMin[f.minKey] = f
	}
}

// NewFilterState returns an empty state with every range at its default
// bounds.
func NewFilterState() *FilterState {
	s := &FilterState{}
	for _, f := range rangeFacets {
		*f.get(s) = f.def
	}
	return s
}

// Encode serializes the state to a flat parameter list in the contract's key
// order, suppressing defaults: empty sets emit nothing, a range bound equal
// to its default emits nothing, and the certificate number is emitted only
// when non-empty.
func (s *FilterState) Encode() []Param {
	var params []Param
	for _, key := range encodeOrder {
		if key == "certificateNumber" {
			if s.CertificateNumber != "" {
				params = append(params, Param{Key: key, Value: s.CertificateNumber})
			}
			continue
		}
		if f, ok := setFacetByKey[key]; ok {
			for _, v := range *f.get(s) {
				params = append(params, Param{Key: f.key, Value: v})
			}
			continue
		}
		f := rangeFacetByMin[key]
		r := *f.get(s)
		if r.Min != f.def.Min {
			params = append(params, Param{Key: f.minKey, Value: formatBound(r.Min)})
		}
		if r.Max != f.def.Max {
			params = append(params, Param{Key: f.maxKey, Value: formatBound(r.Max)})
		}
	}
	return params
}

// DecodeFilterState builds a state from flat query parameters. Missing range
// bounds take the facet defaults, out-of-domain bounds are clamped, duplicate
// set members collapse, and unrecognized keys are ignored for forward
// compatibility.
func DecodeFilterState(values url.Values) *FilterState {
	s := NewFilterState()

	for _, f := range setFacets {
		if vs, ok := values[f.key]; ok {
			*f.get(s) = dedupe(vs)
		}
	}
	if v := values.Get("certificateNumber"); v != "" {
		s.CertificateNumber = v
	}

	for _, f := range rangeFacets {
		r := f.get(s)
		if v := values.Get(f.minKey); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				r.Min = parsed
			}
		}
		if v := values.Get(f.maxKey); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				r.Max = parsed
			}
		}
		*r = clampRange(*r, f.def)
	}

	return s
}

// ParamsToValues converts an encoded parameter list back to url.Values,
// preserving repeated keys. Used by the cache key builder and tests.
func ParamsToValues(params []Param) url.Values {
	values := url.Values{}
	for _, p := range params {
		values.Add(p.Key, p.Value)
	}
	return values
}

func clampRange(r, domain Range) Range {
	if r.Min < domain.Min {
		r.Min = domain.Min
	}
	if r.Min > domain.Max {
		r.Min = domain.Max
	}
	if r.Max > domain.Max {
		r.Max = domain.Max
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
