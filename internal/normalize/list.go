// Package normalize canonicalizes stored list-field values.
//
// The trades table accepts list fields either as a native array or as
// JSON-encoded text, and older rows hold bare scalars. List absorbs all of
// these shapes so callers only ever see an ordered []string.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// List returns v as a fresh ordered list of strings. It never fails:
//   - []string and []any are copied element by element
//   - nil yields an empty list
//   - text that parses as a JSON array yields the parsed elements,
//     any other text yields a single-element list holding the text
//   - any other scalar yields a single-element list
func List(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, t...)
	case []any:
		return fromAny(t)
	case string:
		return fromText(t)
	case []byte:
		return fromText(string(t))
	case json.RawMessage:
		return fromText(string(t))
	default:
		return []string{Element(t)}
	}
}

// Element renders a single decoded element as a string. Strings pass through,
// everything else uses its JSON encoding so numbers, booleans and null read
// the same way they were stored.
func Element(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Encode returns the JSON text form of list, the shape written by clients
// that store list fields as text.
func Encode(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

// Append returns a new list holding current's canonical form followed by item.
// current is never modified.
func Append(current any, item string) []string {
	return append(List(current), item)
}

func fromText(s string) []string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			if arr, ok := parsed.([]any); ok {
				return fromAny(arr)
			}
		}
	}
	return []string{s}
}

func fromAny(arr []any) []string {
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		out = append(out, Element(el))
	}
	return out
}
