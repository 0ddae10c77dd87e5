package timeline

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a sealed interface for animated property values.
// Only Scalar, Text, and Record implement it. Keeping the set closed means
// every consumer (interpolator, canonical marshal, compiler) handles all
// variants exhaustively.
type Value interface {
	value() // sealed
}

// Scalar is a numeric property value.
type Scalar float64

func (Scalar) value() {}

// MarshalJSON implements json.Marshaler for Scalar.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return []byte(formatFloat(float64(s))), nil
}

// Text is a non-numeric property value, such as a color name or asset key.
// Text entries inside a Record force the interpolator's discrete fallback.
type Text string

func (Text) value() {}

// MarshalJSON implements json.Marshaler for Text.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// Record is a composite value: a flat map of named scalar or text fields,
// e.g. {x: 0, y: 12, anchor: "center"}. Records never nest.
type Record map[string]Value

func (Record) value() {}

// MarshalJSON implements json.Marshaler for Record with sorted keys.
func (r Record) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(r)
}

// ToValue converts a decoded Go value (typically from CUE or YAML) into a
// Value. Numbers become Scalar, strings become Text, and flat maps become
// Record. Anything else is rejected.
func ToValue(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case float64:
		return Scalar(val), nil
	case float32:
		return Scalar(val), nil
	case int:
		return Scalar(val), nil
	case int64:
		return Scalar(val), nil
	case string:
		return Text(val), nil
	case map[string]any:
		rec := make(Record, len(val))
		for k, elem := range val {
			inner, err := ToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("record field %q: %w", k, err)
			}
			if _, nested := inner.(Record); nested {
				return nil, fmt.Errorf("record field %q: records cannot nest", k)
			}
			rec[k] = inner
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// formatFloat renders a float with the shortest representation that
// round-trips exactly. Identical bits always produce identical text, which
// canonical marshalling and content hashing depend on.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
