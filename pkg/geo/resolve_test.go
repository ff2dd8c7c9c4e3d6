package geo

import (
	"encoding/json"
	"math"
	"testing"
)

var (
	latAliases = []string{"Latitudine", "latitudine"}
	lngAliases = []string{"Longitudine", "longitudine"}
)

func TestResolveCoordinate(t *testing.T) {
	cases := []struct {
		name   string
		record Record
		want   Point
		ok     bool
	}{
		{"primary aliases", Record{"Latitudine": 41.118, "Longitudine": 16.87}, Point{41.118, 16.87}, true},
		{"fallback alias", Record{"latitudine": 41.118, "longitudine": 16.87}, Point{41.118, 16.87}, true},
		{"mixed aliases resolved independently", Record{"Latitudine": 41.118, "longitudine": 16.87}, Point{41.118, 16.87}, true},
		{"null primary falls through", Record{"Latitudine": nil, "latitudine": 41.1, "Longitudine": 16.8}, Point{41.1, 16.8}, true},
		{"empty string falls through", Record{"Latitudine": " ", "latitudine": "41.1", "Longitudine": "16.8"}, Point{41.1, 16.8}, true},
		{"numeric strings", Record{"Latitudine": " 41.118 ", "Longitudine": "16.87"}, Point{41.118, 16.87}, true},
		{"json number", Record{"Latitudine": json.Number("41.5"), "Longitudine": json.Number("16.5")}, Point{41.5, 16.5}, true},
		{"zero is a coordinate", Record{"Latitudine": 0.0, "Longitudine": 0.0}, Point{0, 0}, true},
		{"case sensitive", Record{"LATITUDINE": 41.1, "LONGITUDINE": 16.8}, Point{}, false},
		{"missing longitude", Record{"Latitudine": 41.1}, Point{}, false},
		{"garbage", Record{"Latitudine": "north", "Longitudine": 16.8}, Point{}, false},
		{"infinite", Record{"Latitudine": math.Inf(1), "Longitudine": 16.8}, Point{}, false},
		{"out of range", Record{"Latitudine": 91.0, "Longitudine": 16.8}, Point{}, false},
		{"unsupported type", Record{"Latitudine": []any{41.1}, "Longitudine": 16.8}, Point{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveCoordinate(tc.record, latAliases, lngAliases)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ResolveCoordinate(%v) = %v, %v; want %v, %v", tc.record, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestFieldString(t *testing.T) {
	cases := []struct {
		name   string
		record Record
		names  []string
		want   string
		ok     bool
	}{
		{"string", Record{"Spazio": " Ex Caserma "}, []string{"Spazio"}, "Ex Caserma", true},
		{"number", Record{"Civico": 12.0}, []string{"Civico"}, "12", true},
		{"second alias", Record{"spazio": "Parco"}, []string{"Spazio", "spazio"}, "Parco", true},
		{"absent", Record{}, []string{"Spazio"}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FieldString(tc.record, tc.names)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("FieldString(%v, %v) = %q, %v; want %q, %v", tc.record, tc.names, got, ok, tc.want, tc.ok)
			}
		})
	}
}
