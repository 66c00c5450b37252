package services

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// BillingPolicy holds the checkout settings in force when a bill is cut.
type BillingPolicy struct {
	// TaxRate is a percentage, e.g. 12 for 12%.
	TaxRate decimal.Decimal
	// RoundPlaces is the number of decimal places tax is rounded to.
	RoundPlaces int32
}

func DefaultBillingPolicy() BillingPolicy {
	return BillingPolicy{TaxRate: decimal.NewFromInt(12)}
}

// Charges is the frozen arithmetic of one bill.
type Charges struct {
	Nights      int
	RoomCharges decimal.Decimal
	FoodCharges decimal.Decimal
	Advance     decimal.Decimal
	TaxableBase decimal.Decimal
	TaxRate     decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// Nights bills at least one night; every started 24h period counts.
func Nights(checkedIn, now time.Time) int {
	elapsed := now.Sub(checkedIn)
	if elapsed <= 0 {
		return 1
	}
	n := int(elapsed / day)
	if elapsed%day != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ComputeCharges deducts the advance before tax and clamps the taxable
// base at zero.
func ComputeCharges(p BillingPolicy, rate decimal.Decimal, nights int, food, advance decimal.Decimal) Charges {
	roomCharges := rate.Mul(decimal.NewFromInt(int64(nights)))

	base := roomCharges.Add(food).Sub(advance)
	if base.IsNegative() {
		base = decimal.Zero
	}

	tax := base.Mul(p.TaxRate).Div(hundred).Round(p.RoundPlaces)

	return Charges{
		Nights:      nights,
		RoomCharges: roomCharges,
		FoodCharges: food,
		Advance:     advance,
		TaxableBase: base,
		TaxRate:     p.TaxRate,
		Tax:         tax,
		Total:       base.Add(tax),
	}
}
