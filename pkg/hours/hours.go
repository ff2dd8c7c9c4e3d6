// Package hours reads the weekly opening schedules attached to dataset
// records ("orari apertura") and answers whether a place is open.
package hours

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Field is the record attribute holding the schedule.
const Field = "orari apertura"

// Days lists the schedule keys in display order, Monday first.
var Days = []string{"lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato", "domenica"}

// DayName maps a weekday to its schedule key.
func DayName(d time.Weekday) string {
	return Days[(int(d)+6)%7]
}

// Slot is one opening period in decimal hours, open inclusive, close exclusive.
type Slot struct {
	Open  float64
	Close float64
}

// Schedule maps a day key to its opening periods. A day that is absent or
// has no periods is closed.
type Schedule map[string][]Slot

type rawDay struct {
	Apertura []any `json:"apertura"`
	Chiusura []any `json:"chiusura"`
}

// Parse converts a decoded JSON schedule into a Schedule. Opening times
// without a matching closing time are dropped.
func Parse(v any) (Schedule, error) {
	days, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schedule must be an object, got %T", v)
	}
	out := make(Schedule, len(days))
	for day, raw := range days {
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("day %q: %w", day, err)
		}
		var rd rawDay
		if err := json.Unmarshal(b, &rd); err != nil {
			return nil, fmt.Errorf("day %q: %w", day, err)
		}
		n := min(len(rd.Apertura), len(rd.Chiusura))
		slots := make([]Slot, 0, n)
		for i := 0; i < n; i++ {
			open, err := ToDecimal(rd.Apertura[i])
			if err != nil {
				return nil, fmt.Errorf("day %q opening %d: %w", day, i, err)
			}
			cls, err := ToDecimal(rd.Chiusura[i])
			if err != nil {
				return nil, fmt.Errorf("day %q closing %d: %w", day, i, err)
			}
			slots = append(slots, Slot{Open: open, Close: cls})
		}
		out[strings.ToLower(day)] = slots
	}
	return out, nil
}

// ToDecimal converts "7:30", "08:00", "19" or a number into decimal hours.
func ToDecimal(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if h, m, ok := strings.Cut(s, ":"); ok {
			hours, err := strconv.Atoi(h)
			if err != nil {
				return 0, fmt.Errorf("bad hour in %q: %w", s, err)
			}
			minutes, err := strconv.Atoi(m)
			if err != nil {
				return 0, fmt.Errorf("bad minutes in %q: %w", s, err)
			}
			return float64(hours) + float64(minutes)/60, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("bad time %q: %w", s, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported time value %T", v)
	}
}

// FormatDecimal renders decimal hours as HH:MM.
func FormatDecimal(h float64) string {
	hours := math.Floor(h)
	minutes := math.Round((h - hours) * 60)
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", int(hours), int(minutes))
}

// IsOpen reports whether some period of day contains hour.
func (s Schedule) IsOpen(day string, hour float64) bool {
	for _, slot := range s[strings.ToLower(day)] {
		if hour >= slot.Open && hour < slot.Close {
			return true
		}
	}
	return false
}

// Format returns one line per scheduled day, Monday first.
func (s Schedule) Format() []string {
	var lines []string
	for _, day := range Days {
		slots, ok := s[day]
		if !ok {
			continue
		}
		label := strings.ToUpper(day[:1]) + day[1:]
		if len(slots) == 0 {
			lines = append(lines, label+": Chiuso")
			continue
		}
		parts := make([]string, len(slots))
		for i, slot := range slots {
			parts[i] = FormatDecimal(slot.Open) + " - " + FormatDecimal(slot.Close)
		}
		lines = append(lines, label+": "+strings.Join(parts, ", "))
	}
	return lines
}

// OpenAt evaluates the schedule stored under Field in attrs. Records without
// a schedule are always open; records with an unreadable one are closed.
func OpenAt(attrs map[string]any, day string, hour float64) bool {
	raw, ok := attrs[Field]
	if !ok || raw == nil {
		return true
	}
	s, err := Parse(raw)
	if err != nil {
		return false
	}
	return s.IsOpen(day, hour)
}
