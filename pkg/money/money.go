// Package money holds the currency arithmetic used by billing. All amounts
// are euro values carried as float64 at rest; every operation that produces
// an amount goes through decimal arithmetic and is rounded to two places, so
// binary float error never reaches the 2-decimal boundary.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is the German regular VAT rate, applied when a transaction
// carries VAT but no explicit rate.
const DefaultVATRate = 19.0

// Round rounds v to two decimal places, half away from zero.
// decimal.NewFromFloat parses the shortest decimal representation of v, so
// Round(106.785) yields 106.79 where round(v*100)/100 would misround.
// Non-finite inputs round to 0.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// PercentOf returns amount * (percent / 100) rounded to two decimal places.
func PercentOf(amount, percent float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || math.IsNaN(percent) || math.IsInf(percent, 0) {
		return 0
	}
	a := decimal.NewFromFloat(amount)
	p := decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100))
	out, _ := a.Mul(p).Round(2).Float64()
	return out
}

// SplitInclusive treats gross as a VAT-inclusive amount at the given rate and
// returns the net and VAT portions, both rounded to two decimal places. The
// VAT portion is the remainder after rounding net, so net+vat == gross holds
// exactly. A zero or negative rate returns the amount unsplit.
func SplitInclusive(gross, rate float64) (net, vat float64) {
	gross = Round(gross)
	if rate <= 0 {
		return gross, 0
	}
	g := decimal.NewFromFloat(gross)
	divisor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate).Div(decimal.NewFromInt(100)))
	netD := g.DivRound(divisor, 2)
	vatD := g.Sub(netD)
	net, _ = netD.Float64()
	vat, _ = vatD.Round(2).Float64()
	return net, vat
}

// Add sums two already-rounded amounts without re-rounding beyond the
// 2-decimal boundary.
func Add(a, b float64) float64 {
	out, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return out
}
