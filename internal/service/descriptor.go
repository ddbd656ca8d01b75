package service

import (
	"regexp"
	"strings"

	"gemstore/internal/model"
)

// descriptorLabels is the fixed label vocabulary of supplier descriptor
// strings ("Color: D Clarity: IF ..."). A value capture is bounded by the
// position of the next label so a missing delimiter never lets one value
// swallow the following field's label.
var descriptorLabels = []string{
	"Color", "Clarity", "Cut", "Shape", "Carats", "Polish", "Symmetry",
	"Fluorescence", "Measurements", "Table", "DepthPercentage", "Lab",
}

var descriptorLabelRe = regexp.MustCompile(`(?i)\b(` + strings.Join(descriptorLabels, "|") + `)\s*:`)

// descriptorSegments splits a descriptor string into label → trimmed value.
// Values run from the end of one label match to the start of the next, so
// the result is the same whatever order the labels appear in. The first
// occurrence of a repeated label wins.
func descriptorSegments(s string) map[string]string {
	matches := descriptorLabelRe.FindAllStringSubmatchIndex(s, -1)
	segments := make(map[string]string, len(matches))
	for i, m := range matches {
		name := canonicalLabel(s[m[2]:m[3]])
		end := len(s)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		value := strings.TrimSpace(s[m[1]:end])
		if _, ok := segments[name]; !ok {
			segments[name] = value
		}
	}
	return segments
}

func canonicalLabel(raw string) string {
	for _, l := range descriptorLabels {
		if strings.EqualFold(l, raw) {
			return l
		}
	}
	return raw
}

// ParseDescriptor extracts color, clarity and cut from a label-delimited
// supplier descriptor. A Cut of "N/A" (any case) or an empty value
// normalizes to nil; other values are trimmed and kept as-is. Empty input
// yields an all-nil result.
func ParseDescriptor(descriptor string) model.GradingAttributes {
	var g model.GradingAttributes
	if strings.TrimSpace(descriptor) == "" {
		return g
	}

	segments := descriptorSegments(descriptor)

	if v, ok := segments["Color"]; ok && v != "" {
		g.Color = &v
	}
	if v, ok := segments["Clarity"]; ok && v != "" {
		g.Clarity = &v
	}
	if v, ok := segments["Cut"]; ok && v != "" && !strings.EqualFold(v, "N/A") {
		g.Cut = &v
	}
	return g
}
