package optimizer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Bound clamps every new bid into [floor, ceiling] and computes the absolute
// and percentage change against the normalized bid.
func Bound(recs []*Record, floor, ceiling decimal.Decimal) {
	for _, r := range recs {
		switch {
		case r.NewBid.LessThan(floor):
			r.NewBid = floor
			r.Clamped = true
		case r.NewBid.GreaterThan(ceiling):
			r.NewBid = ceiling
			r.Clamped = true
		}
		r.Change = r.NewBid.Sub(r.Bid)
		if r.Bid.IsZero() {
			r.ChangePct, r.ChangePctOK = decimal.Zero, false
			continue
		}
		r.ChangePct = r.NewBid.Div(r.Bid).Sub(one).Mul(hundred)
		r.ChangePctOK = true
	}
}

// FormatShare renders a share percentage like "12.5%" or "10.0%". A share of a
// zero total is rendered as "0%".
func FormatShare(share, total decimal.Decimal) string {
	if !total.IsPositive() {
		return "0%"
	}
	s := share.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

// FormatChange renders a signed currency delta, e.g. "$+0.10" or "$-0.05".
func FormatChange(d decimal.Decimal) string {
	return "$" + signed(d)
}

// FormatChangePct renders a signed percentage, e.g. "+10.00%". It returns
// "n/a" when the percentage is undefined.
func FormatChangePct(d decimal.Decimal, ok bool) string {
	if !ok {
		return "n/a"
	}
	return signed(d) + "%"
}

func signed(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return "+" + s
}

// formatBid keeps cents precision for ordinary bids and does not round away
// sub-cent bids the advertiser entered.
func formatBid(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
