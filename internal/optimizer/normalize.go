package optimizer

import (
	"strings"

	"github.com/KaramelBytes/bidopt-cli/internal/bulksheet"
	"github.com/shopspring/decimal"
)

var numericFields = []struct {
	name  string
	field func(r *Record) *decimal.Decimal
}{
	{ColBid, func(r *Record) *decimal.Decimal { return &r.Bid }},
	{ColDefaultBid, func(r *Record) *decimal.Decimal { return &r.DefaultBid }},
	{ColSpend, func(r *Record) *decimal.Decimal { return &r.Spend }},
	{ColSales, func(r *Record) *decimal.Decimal { return &r.Sales }},
	{ColOrders, func(r *Record) *decimal.Decimal { return &r.Orders }},
	{ColClicks, func(r *Record) *decimal.Decimal { return &r.Clicks }},
	{ColROAS, func(r *Record) *decimal.Decimal { return &r.ROAS }},
	{ColImpressions, func(r *Record) *decimal.Decimal { return &r.Impressions }},
}

// NumericColumns returns the designated numeric column names.
func NumericColumns() []string {
	out := make([]string, len(numericFields))
	for i, f := range numericFields {
		out[i] = f.name
	}
	return out
}

// Normalize builds one record per table row. Designated numeric columns are
// parsed (empty or invalid text becomes 0) and written back in canonical form;
// a zero Bid is replaced by the ad group default bid. Designated columns absent
// from the header are skipped.
func Normalize(t *bulksheet.Table, opt bulksheet.Options) []*Record {
	recs := make([]*Record, len(t.Rows))
	for i := range t.Rows {
		r := &Record{Row: i, Operation: OperationUpdate}
		for _, f := range numericFields {
			col, ok := t.Index(f.name)
			if !ok {
				continue
			}
			raw := t.Cell(i, col)
			d, ok := bulksheet.ParseNumber(raw, opt)
			if !ok && strings.TrimSpace(raw) != "" {
				r.Coerced = append(r.Coerced, f.name)
			}
			*f.field(r) = d
			t.Set(i, col, d.String())
		}
		if r.Bid.IsZero() {
			r.Bid = r.DefaultBid
			r.Defaulted = !r.DefaultBid.IsZero()
			if col, ok := t.Index(ColBid); ok {
				t.Set(i, col, r.Bid.String())
			}
		}
		r.NewBid = r.Bid
		recs[i] = r
	}
	return recs
}

// resolveInformational copies the case-insensitively matched campaign
// columns onto each record.
func resolveInformational(t *bulksheet.Table, recs []*Record) {
	name := foldIndex(t, ColCampaignName)
	portfolio := foldIndex(t, ColPortfolioName)
	state := foldIndex(t, ColCampaignState)
	for _, r := range recs {
		r.Campaign = t.Cell(r.Row, name)
		r.Portfolio = t.Cell(r.Row, portfolio)
		r.CampaignState = t.Cell(r.Row, state)
	}
}

func foldIndex(t *bulksheet.Table, name string) int {
	if i, ok := t.IndexFold(name); ok {
		return i
	}
	return -1
}
