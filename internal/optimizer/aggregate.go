package optimizer

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals are dataset-wide sums used for share columns.
type Totals struct {
	Spend decimal.Decimal
	Sales decimal.Decimal
}

// Aggregate sums spend and sales over all records and fills each record's
// share of the totals, as a percentage rounded to two places. Shares are zero
// when the corresponding total is not positive.
func Aggregate(recs []*Record) Totals {
	var tot Totals
	for _, r := range recs {
		tot.Spend = tot.Spend.Add(r.Spend)
		tot.Sales = tot.Sales.Add(r.Sales)
	}
	for _, r := range recs {
		r.SpendShare = share(r.Spend, tot.Spend)
		r.SalesShare = share(r.Sales, tot.Sales)
	}
	return tot
}

func share(v, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return v.Div(total).Mul(hundred).Round(2)
}
