package plangate

import (
	"regexp"

	"pgms/internal/money"

	"github.com/shopspring/decimal"
)

var (
	discountPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	maxDiscount     = decimal.NewFromInt(100)
	hundred         = decimal.NewFromInt(100)
)

type Pricing struct {
	EffectivePrice  money.Money     `json:"effective_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	HasDiscount     bool            `json:"has_discount"`
}

// ParseDiscount reads the first number in an offer text as a percentage.
// Offers without a number are no discount; values above 100 are capped.
func ParseDiscount(offer string) decimal.Decimal {
	match := discountPattern.FindString(offer)
	if match == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	if d.GreaterThan(maxDiscount) {
		return maxDiscount
	}
	return d
}

func ComputeEffectivePrice(plan Plan) Pricing {
	discount := ParseDiscount(plan.Offer)
	if !discount.IsPositive() {
		return Pricing{EffectivePrice: plan.BasePrice, DiscountPercent: decimal.Zero}
	}

	base := plan.BasePrice.Rupees()
	off := base.Mul(discount).Div(hundred)
	effective := money.FromDecimal(base.Sub(off).Round(0))
	if effective > plan.BasePrice {
		effective = plan.BasePrice
	}

	return Pricing{
		EffectivePrice:  effective,
		DiscountPercent: discount,
		HasDiscount:     true,
	}
}
