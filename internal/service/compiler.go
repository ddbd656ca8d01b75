package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gemstore/internal/model"
)

// Provider filter field tokens, one per facet clause.
const (
	fieldShapes            = "shapes"
	fieldCaratRange        = "size"
	fieldColor             = "color"
	fieldClarity           = "clarity"
	fieldCut               = "cut"
	fieldCertificateLab    = "certificate_lab"
	fieldCertificateNumber = "certificate_number"
	fieldPriceRanges       = "price_ranges"
	fieldLabGrownType      = "lab_grown_type"
	fieldFluorescence      = "fluorescence"
	fieldPolish            = "polish"
	fieldSymmetry          = "symmetry"
	fieldGirdle            = "girdle_thickness"
	fieldTablePct          = "table_percent"
	fieldDepthPct          = "depth_percent"
	fieldRatio             = "ratio"
	fieldLength            = "length_mm"
	fieldWidth             = "width_mm"
	fieldHeight            = "height_mm"
	fieldCrownAngle        = "crown_angle"
	fieldPavilionAngle     = "pavilion_angle"
	fieldHasImage          = "has_image"
	fieldHasSpinMedia      = "has_v360"
)

// searchQuery is the fixed provider query document. Filtering rides entirely
// in the variables object so a dropped clause never changes the document.
const searchQuery = `query inventorySearch($filter: StoneFilter!, $order: OrderInput!, $offset: Int!, $limit: Int!) {
  diamonds_by_query(filter: $filter, order: $order, offset: $offset, limit: $limit) {
    items {
      id
      price
      currency
      availability
      image
      v360
      certificate {
        color clarity cut carats shape lab lab_grown_type
        polish symmetry fluorescence girdle measurements
        table_percentage depth_percentage
      }
    }
    total_count
  }
}`

// Clause is one filter condition of a compiled query: a provider field token
// and its already-marshaled value.
type Clause struct {
	Field string
	Value json.RawMessage
}

// fragileFields maps provider diagnostic tokens to the clause each one
// condemns, in the priority order they are checked. The token list couples
// us to the provider's error wording; keep it separate from the retry
// control flow so it can change without touching it.
var fragileFields = []struct {
	token string
	field string
}{
	{"certificate_number", fieldCertificateNumber},
	{"certificate_lab", fieldCertificateLab},
}

// QueryCompiler turns a filter state into a provider query and runs it with
// the degrade-and-retry policy.
type QueryCompiler struct {
	client *ProviderClient
}

// NewQueryCompiler creates a query compiler on top of a provider client.
func NewQueryCompiler(client *ProviderClient) *QueryCompiler {
	return &QueryCompiler{client: client}
}

// Compile produces the ordered clause list for a filter state. The order is
// fixed so identical states yield byte-identical query bodies: shape, carat
// range, color, clarity, cut, certification lab, certificate number, price
// range, then the remaining facets, then the two always-present baseline
// clauses.
func (qc *QueryCompiler) Compile(state *model.FilterState) []Clause {
	var clauses []Clause

	addSet := func(field string, values []string) {
		if len(values) > 0 {
			clauses = append(clauses, Clause{Field: field, Value: mustJSON(values)})
		}
	}
	addRange := func(field string, r, def model.Range) {
		if r != def {
			clauses = append(clauses, Clause{Field: field, Value: rangeJSON(r)})
		}
	}

	addSet(fieldShapes, state.Shapes)
	addRange(fieldCaratRange, state.Carat, model.DefaultCarat)
	addSet(fieldColor, state.Colors)
	addSet(fieldClarity, state.Clarities)
	addSet(fieldCut, state.Cuts)
	addSet(fieldCertificateLab, state.Labs)
	if state.CertificateNumber != "" {
		clauses = append(clauses, Clause{Field: fieldCertificateNumber, Value: mustJSON(state.CertificateNumber)})
	}
	addSet(fieldPriceRanges, state.PriceRanges)

	addSet(fieldLabGrownType, state.LabGrownTypes)
	addSet(fieldFluorescence, state.Fluorescence)
	addSet(fieldPolish, state.Polish)
	addSet(fieldSymmetry, state.Symmetry)
	addSet(fieldGirdle, state.GirdleThickness)
	addRange(fieldTablePct, state.Table, model.DefaultTable)
	addRange(fieldDepthPct, state.Depth, model.DefaultDepth)
	addRange(fieldRatio, state.Ratio, model.DefaultRatio)
	addRange(fieldLength, state.Length, model.DefaultLength)
	addRange(fieldWidth, state.Width, model.DefaultWidth)
	addRange(fieldHeight, state.Height, model.DefaultHeight)
	addRange(fieldCrownAngle, state.CrownAngle, model.DefaultCrownAngle)
	addRange(fieldPavilionAngle, state.PavilionAngle, model.DefaultPavilionAngle)

	clauses = append(clauses,
		Clause{Field: fieldHasImage, Value: mustJSON(true)},
		Clause{Field: fieldHasSpinMedia, Value: mustJSON(true)},
	)
	return clauses
}

// Render serializes a clause list plus sort and window into the provider's
// {query, variables} body. Filter keys are written in clause order rather
// than through a map so the bytes are reproducible.
func Render(clauses []Clause, sort string, page model.PageRequest) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"query":`)
	doc, _ := json.Marshal(searchQuery)
	buf.Write(doc)
	buf.WriteString(`,"variables":{"filter":{`)
	for i, cl := range clauses {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(cl.Field))
		buf.WriteByte(':')
		buf.Write(cl.Value)
	}
	buf.WriteString(`},"order":{"type":"price","direction":`)
	if sort == model.SortPriceDesc {
		buf.WriteString(`"DESC"`)
	} else {
		buf.WriteString(`"ASC"`)
	}
	buf.WriteString(`},"offset":`)
	buf.WriteString(strconv.Itoa(page.Offset))
	buf.WriteString(`,"limit":`)
	buf.WriteString(strconv.Itoa(page.Limit))
	buf.WriteString(`}}`)
	return buf.Bytes()
}

// Execute authenticates, compiles and runs the query. On a rejection whose
// diagnostic names a fragile field, the owning clause is dropped and the
// query reissued exactly once; a second failure of any kind surfaces as
// RetryExhaustedError. Authentication failures are fatal and never retried.
func (qc *QueryCompiler) Execute(ctx context.Context, state *model.FilterState, sort string, page model.PageRequest) (*SearchPage, error) {
	token, err := qc.client.Token(ctx)
	if err != nil {
		return nil, err
	}

	clauses := qc.Compile(state)
	result, firstErr := qc.client.Query(ctx, token, Render(clauses, sort, page))
	if firstErr == nil {
		return result, nil
	}

	dropped, remaining := degrade(clauses, firstErr)
	if dropped == "" {
		return nil, firstErr
	}

	log.Printf("provider rejected %q, retrying without it", dropped)
	result, retryErr := qc.client.Query(ctx, token, Render(remaining, sort, page))
	if retryErr != nil {
		return nil, &RetryExhaustedError{DroppedField: dropped, First: firstErr, Second: retryErr}
	}
	return result, nil
}

// degrade inspects a rejection diagnostic for fragile-field tokens, in
// priority order, and returns the clause list with the first condemned
// clause removed. At most one clause is ever dropped.
func degrade(clauses []Clause, err error) (string, []Clause) {
	var rejected *QueryRejectedError
	if !errors.As(err, &rejected) {
		return "", nil
	}
	diag := strings.ToLower(rejected.Diagnostic)

	for _, f := range fragileFields {
		if !strings.Contains(diag, f.token) {
			continue
		}
		for i, cl := range clauses {
			if cl.Field != f.field {
				continue
			}
			remaining := make([]Clause, 0, len(clauses)-1)
			remaining = append(remaining, clauses[:i]...)
			remaining = append(remaining, clauses[i+1:]...)
			return f.field, remaining
		}
	}
	return "", nil
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with unmarshalable values, which the clause
		// builders never produce.
		panic(fmt.Sprintf("marshal clause value: %v", err))
	}
	return data
}

// rangeJSON writes a from/to object with reproducible float formatting.
func rangeJSON(r model.Range) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"from":%s,"to":%s}`,
		strconv.FormatFloat(r.Min, 'f', -1, 64),
		strconv.FormatFloat(r.Max, 'f', -1, 64)))
}
