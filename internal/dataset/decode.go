package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"weather-dashboard-go/internal/types"
)

// ErrInvalidFormat marks a payload that parsed as JSON but is not a sequence
// of daily records.
var ErrInvalidFormat = errors.New("invalid format")

// FieldMap names the JSON keys read from each record.
type FieldMap struct {
	Date     string
	High     string
	Low      string
	Category string
}

// DefaultFields matches the forecast feed.
var DefaultFields = FieldMap{
	Date:     "date",
	High:     "max_temp",
	Low:      "min_temp",
	Category: "weather_condition",
}

// FormatError describes why a payload was rejected.
type FormatError struct {
	Shape  string // JSON kind of the offending value
	Index  int    // element index, -1 for the payload itself
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid format: payload is %s, want array", e.Shape)
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid format: element %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid format: element %d field %q: %s", e.Index, e.Field, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrInvalidFormat }

// Decode turns a JSON payload into a dataset in received order. raw must
// already be valid JSON.
func Decode(raw []byte, fields FieldMap) (types.Dataset, error) {
	trimmed := bytes.TrimSpace(raw)
	if Shape(trimmed) != "array" {
		return nil, &FormatError{Shape: Shape(trimmed), Index: -1}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &FormatError{Shape: "array", Index: -1, Reason: err.Error()}
	}

	out := make(types.Dataset, 0, len(elems))
	for i, el := range elems {
		rec, err := decodeRecord(i, el, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRecord(i int, el json.RawMessage, fields FieldMap) (types.DailyRecord, error) {
	if Shape(el) != "object" {
		return types.DailyRecord{}, &FormatError{Shape: Shape(el), Index: i, Reason: "element is not an object"}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(el, &obj); err != nil {
		return types.DailyRecord{}, &FormatError{Shape: "object", Index: i, Reason: err.Error()}
	}

	var rec types.DailyRecord
	var err error
	if rec.Date, err = label(obj, fields.Date); err != nil {
		return rec, &FormatError{Shape: "object", Index: i, Field: fields.Date, Reason: err.Error()}
	}
	if rec.High, err = number(obj, fields.High); err != nil {
		return rec, &FormatError{Shape: "object", Index: i, Field: fields.High, Reason: err.Error()}
	}
	if rec.Low, err = number(obj, fields.Low); err != nil {
		return rec, &FormatError{Shape: "object", Index: i, Field: fields.Low, Reason: err.Error()}
	}
	if rec.Category, err = optionalString(obj, fields.Category); err != nil {
		return rec, &FormatError{Shape: "object", Index: i, Field: fields.Category, Reason: err.Error()}
	}
	return rec, nil
}

// label accepts a string or a number; numbers are kept verbatim.
func label(obj map[string]json.RawMessage, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", errors.New("missing")
	}
	switch Shape(v) {
	case "string":
		var s string
		err := json.Unmarshal(v, &s)
		return s, err
	case "number":
		return string(bytes.TrimSpace(v)), nil
	default:
		return "", fmt.Errorf("is %s, want string", Shape(v))
	}
}

// number accepts a JSON number or a string holding one.
func number(obj map[string]json.RawMessage, key string) (float64, error) {
	v, ok := obj[key]
	if !ok {
		return 0, errors.New("missing")
	}
	switch Shape(v) {
	case "number":
		var f float64
		err := json.Unmarshal(v, &f)
		return f, err
	case "string":
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", s)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("not finite: %q", s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("is %s, want number", Shape(v))
	}
}

func optionalString(obj map[string]json.RawMessage, key string) (string, error) {
	v, ok := obj[key]
	if !ok || key == "" {
		return "", nil
	}
	switch Shape(v) {
	case "null":
		return "", nil
	case "string":
		var s string
		err := json.Unmarshal(v, &s)
		return s, err
	default:
		return "", fmt.Errorf("is %s, want string", Shape(v))
	}
}

// Shape names the JSON kind of raw by its first significant byte.
func Shape(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "empty"
	}
	switch raw[0] {
	case '[':
		return "array"
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
