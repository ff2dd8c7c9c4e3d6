package geo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is a raw dataset entry as decoded from JSON.
type Record map[string]any

// FieldValue returns the value of the first field in names that is present,
// non-nil and not an empty string. Field names are matched case-sensitively.
func FieldValue(rec Record, names []string) (any, bool) {
	for _, name := range names {
		v, ok := rec[name]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// FieldString is FieldValue rendered as a string.
func FieldString(rec Record, names []string) (string, bool) {
	v, ok := FieldValue(rec, names)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// ParseCoordinate converts a decoded JSON value into a finite float.
func ParseCoordinate(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ResolveCoordinate looks up latitude and longitude independently through
// their alias lists. It returns false when either value is missing, not a
// finite number, or outside the WGS84 ranges.
func ResolveCoordinate(rec Record, latFields, lngFields []string) (Point, bool) {
	rawLat, ok := FieldValue(rec, latFields)
	if !ok {
		return Point{}, false
	}
	rawLng, ok := FieldValue(rec, lngFields)
	if !ok {
		return Point{}, false
	}
	lat, ok := ParseCoordinate(rawLat)
	if !ok {
		return Point{}, false
	}
	lng, ok := ParseCoordinate(rawLng)
	if !ok {
		return Point{}, false
	}
	p := Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return Point{}, false
	}
	return p, true
}
