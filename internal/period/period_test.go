package period

import (
	"encoding/json"
	"testing"
	"time"

	"pgms/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want CalendarDate
		ok   bool
	}{
		{"2025-03-15", Date(2025, time.March, 15), true},
		{"2025-03-15T23:30:00+05:30", Date(2025, time.March, 15), true},
		{"2025-03-15T10:00:00", Date(2025, time.March, 15), true},
		{"15-03-2025", Date(2025, time.March, 15), true},
		{"15/03/2025", Date(2025, time.March, 15), true},
		{"", CalendarDate{}, false},
		{"yesterday", CalendarDate{}, false},
		{"2025-13-01", CalendarDate{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonth(t *testing.T) {
	p := Month(2024, time.February)
	assert.Equal(t, Date(2024, time.February, 1), p.Start)
	assert.Equal(t, Date(2024, time.February, 29), p.End)

	dec := Month(2025, time.December)
	assert.Equal(t, Date(2025, time.December, 31), dec.End)
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	p := CurrentMonth(now)
	assert.Equal(t, Date(2026, time.October, 1), p.Start)
	assert.Equal(t, Date(2026, time.October, 31), p.End)
}

func TestPeriod_ContainsIsInclusive(t *testing.T) {
	p := Month(2025, time.June)

	assert.True(t, p.Contains(Date(2025, time.June, 1)))
	assert.True(t, p.Contains(Date(2025, time.June, 30)))
	assert.False(t, p.Contains(Date(2025, time.May, 31)))
	assert.False(t, p.Contains(Date(2025, time.July, 1)))
	assert.False(t, p.Contains(CalendarDate{}))
}

func TestPeriod_Validate(t *testing.T) {
	assert.NoError(t, Year(2025).Validate())

	err := Period{Start: Date(2025, time.June, 2), End: Date(2025, time.June, 1)}.Validate()
	require.Error(t, err)
	assert.True(t, api.IsValidationError(err))

	assert.Error(t, Period{End: Date(2025, time.June, 1)}.Validate())
	assert.Error(t, Period{Start: Date(2025, time.February, 30), End: Date(2025, time.March, 1)}.Validate())
}

func TestCalendarDate_JSON(t *testing.T) {
	data, err := json.Marshal(Date(2025, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-05"`, string(data))

	var d CalendarDate
	require.NoError(t, json.Unmarshal([]byte(`"05/01/2025"`), &d))
	assert.Equal(t, Date(2025, time.January, 5), d)

	require.NoError(t, json.Unmarshal([]byte(`"not a date"`), &d))
	assert.True(t, d.IsZero())
}

func TestCalendarDate_Scan(t *testing.T) {
	var d CalendarDate
	require.NoError(t, d.Scan(time.Date(2025, time.April, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Date(2025, time.April, 9), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
