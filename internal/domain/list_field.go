package domain

import "fmt"

// ListField names one of the seven append-only free-text lists on an Entry.
type ListField string

const (
	FieldConfluences       ListField = "confluences"
	FieldEntryModels       ListField = "entry_models"
	FieldMoods             ListField = "moods"
	FieldObservations      ListField = "observations"
	FieldNewsEvents        ListField = "news_events"
	FieldBuysideLiquidity  ListField = "buyside_liquidity"
	FieldSellsideLiquidity ListField = "sellside_liquidity"
)

// ListFields is the fixed set of list fields in display order.
// Entry, the draft composer, and the field editor all iterate this slice.
var ListFields = []ListField{
	FieldConfluences,
	FieldEntryModels,
	FieldMoods,
	FieldObservations,
	FieldNewsEvents,
	FieldBuysideLiquidity,
	FieldSellsideLiquidity,
}

var listFieldLabels = map[ListField]string{
	FieldConfluences:       "Confluences",
	FieldEntryModels:       "Entry model",
	FieldMoods:             "Mood",
	FieldObservations:      "Observations",
	FieldNewsEvents:        "News events",
	FieldBuysideLiquidity:  "Buyside liquidity",
	FieldSellsideLiquidity: "Sellside liquidity",
}

// Column returns the trades table column holding the field.
func (f ListField) Column() string {
	return string(f)
}

// Label returns the human readable name of the field.
func (f ListField) Label() string {
	if l, ok := listFieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// String returns the string representation of ListField.
func (f ListField) String() string {
	return string(f)
}

// IsValid checks if f is one of the seven list fields.
func (f ListField) IsValid() bool {
	_, ok := listFieldLabels[f]
	return ok
}

// ParseListField accepts a column name ("entry_models") or its camelCase
// intent form ("entryModels"). The result is always one of the ListFields
// constants and never shares memory with s.
func ParseListField(s string) (ListField, error) {
	for _, f := range ListFields {
		if string(f) == s || camel(string(f)) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown list field %q", s)
}

func camel(snake string) string {
	out := make([]byte, 0, len(snake))
	upper := false
	for i := 0; i < len(snake); i++ {
		c := snake[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}
