package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Money
	}{
		{"nil", nil, 0},
		{"int rupees", 2000, 200000},
		{"int64 rupees", int64(1500), 150000},
		{"float with paise", 1499.5, 149950},
		{"float rounds half up", 10.005, 1001},
		{"numeric string", "3500", 350000},
		{"padded string", "  250.25 ", 25025},
		{"non numeric string", "abc", 0},
		{"empty string", "", 0},
		{"grouped digits", "1,500", 0},
		{"negative", -500, 0},
		{"NaN", math.NaN(), 0},
		{"Inf", math.Inf(1), 0},
		{"bool", true, 0},
		{"decimal", decimal.RequireFromString("12.34"), 1234},
		{"json number", json.Number("99"), 9900},
		{"bytes", []byte("10.00"), 1000},
		{"largest representable", "92233720368547758.07", Money(math.MaxInt64)},
		{"one paisa past range", "92233720368547758.08", 0},
		{"huge float", 1e20, 0},
		{"huge string", "100000000000000000000", 0},
		{"just past range string", "95000000000000000", 0},
		{"huge decimal", decimal.RequireFromString("1e30"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "1500.00", FromRupees(1500).String())
	assert.Equal(t, "0.05", Money(5).String())
}

func TestSumAndMax0(t *testing.T) {
	assert.Equal(t, FromRupees(3500), Sum(FromRupees(2000), FromRupees(1500)))
	assert.Equal(t, Money(0), Sum())
	assert.Equal(t, Money(0), Max0(-100))
	assert.Equal(t, Money(100), Max0(100))
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(FromRupees(1500))
	require.NoError(t, err)
	assert.Equal(t, "1500", string(data))

	var payload struct {
		Amount Money `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"2000.5"}`), &payload))
	assert.Equal(t, Money(200050), payload.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"oops"}`), &payload))
	assert.Equal(t, Money(0), payload.Amount)
}

func TestMoney_ScanAndValue(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan([]byte("5000.00")))
	assert.Equal(t, FromRupees(5000), m)

	require.NoError(t, m.Scan(nil))
	assert.Equal(t, Money(0), m)

	assert.Error(t, m.Scan(struct{}{}))

	v, err := FromRupees(12).Value()
	require.NoError(t, err)
	assert.Equal(t, "12.00", v)
}
