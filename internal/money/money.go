// Package money holds the integer minor-unit currency type used across billing.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in paise. Values produced by ParseAmount are never negative.
type Money int64

const paisePerRupee = 100

var (
	hundred = decimal.NewFromInt(paisePerRupee)
	// maxRupees is the largest rupee amount that still fits in Money.
	maxRupees = decimal.New(math.MaxInt64, -2)
)

func FromRupees(r int64) Money {
	return Money(r * paisePerRupee)
}

// FromDecimal converts a rupee amount, rounding half up to the nearest paisa.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Mul(hundred).Round(0).IntPart())
}

func (m Money) Rupees() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) String() string {
	return m.Rupees().StringFixed(2)
}

// ParseAmount converts a loosely typed amount in rupees into Money.
// Anything that is not a finite, non-negative number within the range of
// Money becomes zero.
func ParseAmount(v any) Money {
	var d decimal.Decimal

	switch x := v.(type) {
	case nil:
		return 0
	case Money:
		return clamp(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int32:
		d = decimal.NewFromInt32(x)
	case int64:
		d = decimal.NewFromInt(x)
	case float32:
		return ParseAmount(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		d = decimal.NewFromFloat(x)
	case decimal.Decimal:
		d = x
	case json.Number:
		return ParseAmount(string(x))
	case []byte:
		return ParseAmount(string(x))
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}

	if d.IsNegative() || d.GreaterThan(maxRupees) {
		return 0
	}
	return FromDecimal(d)
}

func clamp(m Money) Money {
	if m < 0 {
		return 0
	}
	return m
}

func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// Max0 floors m at zero.
func Max0(m Money) Money {
	return clamp(m)
}

// MarshalJSON encodes the amount in rupees as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Rupees().String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		*m = 0
		return nil
	}
	*m = ParseAmount(raw)
	return nil
}

func (m *Money) Scan(src any) error {
	switch src.(type) {
	case nil, int64, float64, []byte, string:
		*m = ParseAmount(src)
		return nil
	default:
		return fmt.Errorf("money: unsupported scan type %T", src)
	}
}

func (m Money) Value() (driver.Value, error) {
	return m.Rupees().StringFixed(2), nil
}
