// Package period provides calendar dates and inclusive billing periods.
package period

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pgms/internal/api"
)

const dateLayout = "2006-01-02"

// CalendarDate is a day without time-of-day or zone. The zero value means "unknown".
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func Date(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// FromTime takes the calendar date of t in t's own location.
func FromTime(t time.Time) CalendarDate {
	if t.IsZero() {
		return CalendarDate{}
	}
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

var parseLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
}

// ParseDate accepts the date shapes seen in stored and submitted records.
func ParseDate(s string) (CalendarDate, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CalendarDate{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), true
		}
	}
	return CalendarDate{}, false
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Valid reports whether d names a real day.
func (d CalendarDate) Valid() bool {
	if d.IsZero() {
		return false
	}
	return FromTime(d.Time()) == d
}

func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) ordinal() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.ordinal() < o.ordinal() }
func (d CalendarDate) After(o CalendarDate) bool  { return d.ordinal() > o.ordinal() }

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON never fails on a bad date; the result is the zero date.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = CalendarDate{}
		return nil
	}
	parsed, _ := ParseDate(s)
	*d = parsed
	return nil
}

func (d *CalendarDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = CalendarDate{}
	case time.Time:
		*d = FromTime(v)
	case string:
		*d, _ = ParseDate(v)
	case []byte:
		*d, _ = ParseDate(string(v))
	default:
		return fmt.Errorf("period: unsupported scan type %T", src)
	}
	return nil
}

func (d CalendarDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time(), nil
}

// Period is an inclusive range of calendar dates.
type Period struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

func Month(year int, month time.Month) Period {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return Period{
		Start: Date(year, month, 1),
		End:   Date(year, month, last),
	}
}

func Year(year int) Period {
	return Period{
		Start: Date(year, time.January, 1),
		End:   Date(year, time.December, 31),
	}
}

// CurrentMonth is the calendar month containing now.
func CurrentMonth(now time.Time) Period {
	return Month(now.Year(), now.Month())
}

// Validate rejects periods with unknown bounds or a start after the end.
func (p Period) Validate() error {
	if !p.Start.Valid() || !p.End.Valid() || p.Start.After(p.End) {
		return api.NewValidationError("period", "malformed period")
	}
	return nil
}

func (p Period) Contains(d CalendarDate) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return p.Start.String() + ".." + p.End.String()
}
