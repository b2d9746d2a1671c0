package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind classifies what a source cell held
type ValueKind int

const (
	KindEmpty  ValueKind = iota // Blank or missing cell
	KindNumber                  // Numeric cell
	KindText                    // Any non-numeric content
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Value is a single cell value as read from a status report.
// Numbers keep their raw representation so exports do not pick up formatting.
type Value struct {
	Kind ValueKind
	Raw  string
}

// Number returns a numeric Value
func Number(f float64) Value {
	return Value{Kind: KindNumber, Raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Text returns a text Value, or an empty Value for blank input
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{Kind: KindText, Raw: s}
}

// Present reports whether the cell held anything at all
func (v Value) Present() bool {
	return v.Kind != KindEmpty
}

// String returns the trimmed raw content
func (v Value) String() string {
	return strings.TrimSpace(v.Raw)
}

// Float coerces the value to a number. Text that parses as a number is
// accepted; anything else yields a *CoercionError.
func (v Value) Float() (float64, error) {
	if !v.Present() {
		return 0, &CoercionError{Raw: v.Raw}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
	if err != nil {
		return 0, &CoercionError{Raw: v.Raw, Err: err}
	}
	return f, nil
}

// FloatPtr returns the numeric value or nil when it cannot be coerced
func (v Value) FloatPtr() *float64 {
	f, err := v.Float()
	if err != nil {
		return nil
	}
	return &f
}

// MarshalJSON writes numbers as JSON numbers, text as strings and empty cells as null
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		if f, err := v.Float(); err == nil {
			return json.Marshal(f)
		}
		return json.Marshal(v.Raw)
	case KindText:
		return json.Marshal(v.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}
