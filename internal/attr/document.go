package attr

import (
	"encoding/json"
	"fmt"
	"math"
)

// Document is a generic key-value document in JSON shape: values are bool,
// float64, string, []any, map[string]any or nil.
type Document map[string]any

// ParseDocument decodes a JSON object into a Document.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse attribute document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Bytes encodes the document as JSON.
func (d Document) Bytes() ([]byte, error) {
	return json.Marshal(d)
}

// FieldError reports why a single field could not be decoded.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("attribute %q: %s", e.Field, e.Reason)
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// lookup returns the raw field or a FieldError when it is absent.
func lookup(doc Document, name string) (any, error) {
	v, ok := doc[name]
	if !ok {
		return nil, fieldErr(name, "field is missing")
	}
	return v, nil
}

// number accepts every numeric representation a decoder may produce.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func integer(v any) (int, bool) {
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func numbers(v any) ([]float64, bool) {
	var items []any
	switch s := v.(type) {
	case []any:
		items = s
	case []float64:
		return append([]float64(nil), s...), true
	default:
		return nil, false
	}
	out := make([]float64, len(items))
	for k, item := range items {
		f, ok := number(item)
		if !ok {
			return nil, false
		}
		out[k] = f
	}
	return out, true
}

// kindOf names the JSON kind of a decoded value for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any, []float64:
		return "array"
	case map[string]any, Document:
		return "object"
	}
	if _, ok := number(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func object(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case Document:
		return o, true
	}
	return nil, false
}
