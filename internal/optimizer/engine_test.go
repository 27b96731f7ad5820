package optimizer

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/bidopt-cli/internal/bulksheet"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = append(append([]string{}, RequiredColumns...), InformationalColumns...)

// row builds a data row for testHeader; unspecified cells are empty.
func row(vals map[string]string) []string {
	out := make([]string, len(testHeader))
	for i, h := range testHeader {
		out[i] = vals[h]
	}
	return out
}

func runRows(t *testing.T, rows ...map[string]string) *Result {
	t.Helper()
	var data [][]string
	for _, r := range rows {
		data = append(data, row(r))
	}
	tbl := bulksheet.NewTable("test.csv", append([]string{}, testHeader...), data)
	res, err := New(DefaultOptions(), nil).Run(tbl)
	require.NoError(t, err)
	return res
}

func cell(t *testing.T, tbl *bulksheet.Table, r int, col string) string {
	t.Helper()
	i, ok := tbl.Index(col)
	require.True(t, ok, "column %q", col)
	return tbl.Cell(r, i)
}

func TestWorkedExamples(t *testing.T) {
	tests := []struct {
		name      string
		in        map[string]string
		rule      string
		tier      string
		newBid    string
		direction Direction
		reason    string
		magnitude string
		clamped   bool
	}{
		{
			name:      "cost without conversion, medium spend",
			in:        map[string]string{ColClicks: "5", ColOrders: "0", ColSpend: "8", ColBid: "0.50", ColImpressions: "100"},
			rule:      "cost-no-revenue",
			tier:      "medium",
			newBid:    "0.45",
			direction: Decrease,
			reason:    "Cost but No Revenue",
			magnitude: "Decreased bids by 0.05 cents",
		},
		{
			name:      "untested inventory without impressions",
			in:        map[string]string{ColSpend: "0", ColImpressions: "0", ColBid: "0.30"},
			rule:      "no-spend",
			tier:      "no-impressions",
			newBid:    "0.33",
			direction: Increase,
			reason:    "No Spend and No Impressions",
			magnitude: "Increased bids by 0.03 cents",
		},
		{
			name:      "strong performer, high sales",
			in:        map[string]string{ColROAS: "5", ColOrders: "3", ColClicks: "15", ColSales: "120", ColSpend: "24", ColBid: "1.00"},
			rule:      "strong-performer",
			tier:      "high",
			newBid:    "1.15",
			direction: Increase,
			reason:    "ROAS > 4, Orders > 1, Clicks > 10",
			magnitude: "Increased bids by 0.15 cents",
		},
		{
			name:      "strong performer clamped to ceiling",
			in:        map[string]string{ColROAS: "5", ColOrders: "3", ColClicks: "15", ColSales: "120", ColSpend: "24", ColBid: "4.97"},
			rule:      "strong-performer",
			tier:      "high",
			newBid:    "5.00",
			direction: Increase,
			reason:    "ROAS > 4, Orders > 1, Clicks > 10",
			magnitude: "Increased bids by 0.15 cents",
			clamped:   true,
		},
		{
			name:      "high acos, low spend",
			in:        map[string]string{ColROAS: "1.5", ColOrders: "1", ColClicks: "4", ColSales: "6", ColSpend: "4", ColBid: "0.80"},
			rule:      "high-acos",
			tier:      "low",
			newBid:    "0.73",
			direction: Decrease,
			reason:    "High ACOS but Overspending",
			magnitude: "Decreased bids by 0.07 cents",
		},
		{
			name:      "good roas, mid sales",
			in:        map[string]string{ColROAS: "3.5", ColOrders: "1", ColClicks: "20", ColSales: "70", ColSpend: "20", ColBid: "0.60"},
			rule:      "good-roas",
			tier:      "medium",
			newBid:    "0.70",
			direction: Increase,
			reason:    "ROAS > 3 (Low ACOS)",
			magnitude: "Increased bids by 0.10 cents",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRows(t, tt.in)
			r := res.Records[0]
			assert.Equal(t, tt.rule, r.RuleID)
			assert.Equal(t, tt.tier, r.Tier)
			assert.True(t, decimal.RequireFromString(tt.newBid).Equal(r.NewBid), "new bid %s", r.NewBid)
			assert.Equal(t, tt.direction, r.Direction)
			assert.Equal(t, tt.reason, r.Reason)
			assert.Equal(t, tt.magnitude, r.Magnitude)
			assert.Equal(t, tt.clamped, r.Clamped)
			assert.Equal(t, tt.newBid, cell(t, res.Table, 0, ColNewBid))
			assert.Equal(t, OperationUpdate, cell(t, res.Table, 0, ColOperation))
		})
	}
}

func TestChangeColumns(t *testing.T) {
	res := runRows(t, map[string]string{ColClicks: "5", ColSpend: "8", ColBid: "0.50"})
	assert.Equal(t, "$-0.05", cell(t, res.Table, 0, ColChanges))
	assert.Equal(t, "-10.00%", cell(t, res.Table, 0, ColChangesPct))
	assert.Equal(t, "Decrease", cell(t, res.Table, 0, ColDirection))
	assert.Equal(t, "To Decrease Acos", cell(t, res.Table, 0, ColGoal))
}

func TestUnmatchedRecordKeepsBid(t *testing.T) {
	res := runRows(t, map[string]string{ColSpend: "2", ColBid: "0.40"})
	r := res.Records[0]
	assert.Empty(t, r.RuleID)
	assert.True(t, r.NewBid.Equal(r.Bid))
	assert.Equal(t, "0.40", cell(t, res.Table, 0, ColNewBid))
	assert.Equal(t, "", cell(t, res.Table, 0, ColDirection))
	assert.Equal(t, "", cell(t, res.Table, 0, ColWhy))
	assert.Equal(t, "$+0.00", cell(t, res.Table, 0, ColChanges))
	assert.Equal(t, "+0.00%", cell(t, res.Table, 0, ColChangesPct))
}

func TestBoundsHoldForAllRecords(t *testing.T) {
	var rows []map[string]string
	for _, bid := range []string{"0", "0.01", "0.02", "0.05", "1", "4.90", "5", "9.99"} {
		rows = append(rows,
			map[string]string{ColBid: bid, ColClicks: "30", ColSpend: "25"},
			map[string]string{ColBid: bid, ColROAS: "6", ColOrders: "4", ColClicks: "40", ColSales: "300", ColSpend: "50"},
			map[string]string{ColBid: bid},
		)
	}
	res := runRows(t, rows...)
	floor, ceiling := decimal.RequireFromString("0.02"), decimal.RequireFromString("5.00")
	for _, r := range res.Records {
		assert.True(t, r.NewBid.GreaterThanOrEqual(floor), "line %d: %s below floor", line(r), r.NewBid)
		assert.True(t, r.NewBid.LessThanOrEqual(ceiling), "line %d: %s above ceiling", line(r), r.NewBid)
	}
}

func TestZeroBidUsesDefault(t *testing.T) {
	res := runRows(t,
		map[string]string{ColBid: "", ColDefaultBid: "0.75"},
		map[string]string{ColBid: "0", ColDefaultBid: "1.10"},
	)
	assert.True(t, res.Records[0].Bid.Equal(decimal.RequireFromString("0.75")))
	assert.True(t, res.Records[0].Defaulted)
	assert.Equal(t, "0.75", cell(t, res.Table, 0, ColBid))
	assert.True(t, res.Records[1].Bid.Equal(decimal.RequireFromString("1.10")))
	assert.Equal(t, "1.1", cell(t, res.Table, 1, ColBid))
}

func TestZeroBidAndZeroDefault(t *testing.T) {
	res := runRows(t, map[string]string{ColBid: "0", ColDefaultBid: "0", ColClicks: "5", ColSpend: "3"})
	r := res.Records[0]
	assert.Equal(t, "cost-no-revenue", r.RuleID)
	assert.True(t, r.Clamped)
	assert.Equal(t, "0.02", cell(t, res.Table, 0, ColNewBid))
	assert.Equal(t, "$+0.02", cell(t, res.Table, 0, ColChanges))
	assert.Equal(t, "n/a", cell(t, res.Table, 0, ColChangesPct))
	assert.False(t, r.Defaulted)
}

func TestShares(t *testing.T) {
	res := runRows(t,
		map[string]string{ColSpend: "10", ColSales: "0"},
		map[string]string{ColSpend: "20", ColSales: "0"},
		map[string]string{ColSpend: "30", ColSales: "0"},
	)
	sum := decimal.Zero
	for _, r := range res.Records {
		sum = sum.Add(r.SpendShare)
		assert.True(t, r.SalesShare.IsZero())
	}
	assert.InDelta(t, 100.0, sum.InexactFloat64(), 0.02)
	assert.Equal(t, "16.67%", cell(t, res.Table, 0, ColSpendShare))
	assert.Equal(t, "50.0%", cell(t, res.Table, 2, ColSpendShare))
	assert.Equal(t, "0%", cell(t, res.Table, 1, ColSalesShare))
}

func TestTierBoundaries(t *testing.T) {
	costNoRevenue := map[string]string{ColClicks: "3", ColOrders: "0"}
	highAcos := map[string]string{ColROAS: "1", ColOrders: "1", ColClicks: "3", ColSales: "10"}
	strong := map[string]string{ColROAS: "5", ColOrders: "2", ColClicks: "11", ColSpend: "10"}
	goodRoas := map[string]string{ColROAS: "3", ColOrders: "1", ColClicks: "5", ColSpend: "10"}

	tests := []struct {
		base   map[string]string
		col    string
		value  string
		rule   string
		tier   string
		newBid string
	}{
		{costNoRevenue, ColSpend, "4.99", "cost-no-revenue", "low", "0.97"},
		{costNoRevenue, ColSpend, "5", "cost-no-revenue", "medium", "0.95"},
		{costNoRevenue, ColSpend, "20", "cost-no-revenue", "medium", "0.95"},
		{costNoRevenue, ColSpend, "20.01", "cost-no-revenue", "high", "0.90"},
		{highAcos, ColSpend, "4.99", "high-acos", "low", "0.93"},
		{highAcos, ColSpend, "5", "high-acos", "medium", "0.90"},
		{highAcos, ColSpend, "20", "high-acos", "medium", "0.90"},
		{highAcos, ColSpend, "20.01", "high-acos", "high", "0.85"},
		{strong, ColSales, "29.99", "strong-performer", "lowest", "1.07"},
		{strong, ColSales, "30", "strong-performer", "low", "1.10"},
		{strong, ColSales, "49.99", "strong-performer", "low", "1.10"},
		{strong, ColSales, "50", "strong-performer", "medium", "1.12"},
		{strong, ColSales, "99.99", "strong-performer", "medium", "1.12"},
		{strong, ColSales, "100", "strong-performer", "high", "1.15"},
		{goodRoas, ColSales, "29.99", "good-roas", "lowest", "1.05"},
		{goodRoas, ColSales, "30", "good-roas", "low", "1.08"},
		{goodRoas, ColSales, "49.99", "good-roas", "low", "1.08"},
		{goodRoas, ColSales, "50", "good-roas", "medium", "1.10"},
		{goodRoas, ColSales, "99.99", "good-roas", "medium", "1.10"},
		{goodRoas, ColSales, "100", "good-roas", "high", "1.12"},
	}
	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.col+"="+tt.value, func(t *testing.T) {
			in := map[string]string{ColBid: "1.00", tt.col: tt.value}
			for k, v := range tt.base {
				in[k] = v
			}
			r := runRows(t, in).Records[0]
			assert.Equal(t, tt.rule, r.RuleID)
			assert.Equal(t, tt.tier, r.Tier)
			assert.True(t, decimal.RequireFromString(tt.newBid).Equal(r.NewBid), "new bid %s", r.NewBid)
		})
	}
}

func TestStrongPerformerNeverGoodRoas(t *testing.T) {
	for _, sales := range []string{"10", "35", "60", "150"} {
		res := runRows(t, map[string]string{ColROAS: "4.5", ColOrders: "2", ColClicks: "11", ColSales: sales, ColSpend: "10", ColBid: "1"})
		r := res.Records[0]
		assert.Equal(t, "strong-performer", r.RuleID, "sales %s", sales)
		assert.Equal(t, []string{"strong-performer"}, r.Matched)
	}
}

func TestLaterRuleOverwritesEarlier(t *testing.T) {
	// clicks without spend is degenerate but possible in exports
	res := runRows(t, map[string]string{ColClicks: "3", ColOrders: "0", ColSpend: "0", ColImpressions: "10", ColBid: "0.50"})
	r := res.Records[0]
	assert.Equal(t, []string{"cost-no-revenue", "no-spend"}, r.Matched)
	assert.Equal(t, "no-spend", r.RuleID)
	assert.Equal(t, "No Spend but have Impressions", r.Reason)
	assert.Equal(t, Increase, r.Direction)
	assert.True(t, r.NewBid.Equal(decimal.RequireFromString("0.52")))
}

func TestClassificationIgnoresBid(t *testing.T) {
	base := map[string]string{ColROAS: "2", ColOrders: "2", ColClicks: "30", ColSales: "40", ColSpend: "20"}
	var rows []map[string]string
	for _, bid := range []string{"0.10", "0.45", "1.00", "3.20"} {
		r := map[string]string{ColBid: bid}
		for k, v := range base {
			r[k] = v
		}
		rows = append(rows, r)
	}
	res := runRows(t, rows...)
	for _, r := range res.Records {
		assert.Equal(t, "high-acos", r.RuleID)
		assert.Equal(t, "medium", r.Tier)
	}

	// feed the new bids back in as bids: classification stays the same
	var again []map[string]string
	for _, r := range res.Records {
		m := map[string]string{ColBid: r.NewBid.String()}
		for k, v := range base {
			m[k] = v
		}
		again = append(again, m)
	}
	res2 := runRows(t, again...)
	for i, r := range res2.Records {
		assert.Equal(t, res.Records[i].RuleID, r.RuleID)
		assert.Equal(t, res.Records[i].Tier, r.Tier)
	}
}

func TestNonNumericCoercedToZero(t *testing.T) {
	res := runRows(t, map[string]string{ColSpend: "abc", ColClicks: "n/a", ColBid: "0.50"})
	r := res.Records[0]
	assert.ElementsMatch(t, []string{ColSpend, ColClicks}, r.Coerced)
	assert.True(t, r.Spend.IsZero())
	assert.Equal(t, "0", cell(t, res.Table, 0, ColSpend))
	assert.Equal(t, "no-spend", r.RuleID)
}

func TestExtremeExponentCoercedToZero(t *testing.T) {
	res := runRows(t,
		map[string]string{ColSpend: "1e-2000000000", ColBid: "0.50"},
		map[string]string{ColSpend: "8", ColSales: "3e999999999", ColBid: "0.50"},
	)
	assert.Equal(t, []string{ColSpend}, res.Records[0].Coerced)
	assert.True(t, res.Records[0].Spend.IsZero())
	assert.Equal(t, []string{ColSales}, res.Records[1].Coerced)
	assert.True(t, res.Totals.Spend.Equal(decimal.NewFromInt(8)))
	assert.True(t, res.Totals.Sales.IsZero())
}

func TestLocaleNumbers(t *testing.T) {
	tbl := bulksheet.NewTable("de.csv", append([]string{}, testHeader...), [][]string{
		row(map[string]string{ColBid: "0,50", ColClicks: "5", ColSpend: "1.008,00", ColSales: "0"}),
	})
	opt := DefaultOptions()
	opt.Number = bulksheet.Options{DecimalSeparator: ',', ThousandsSeparator: '.'}
	res, err := New(opt, nil).Run(tbl)
	require.NoError(t, err)
	r := res.Records[0]
	assert.True(t, r.Spend.Equal(decimal.NewFromInt(1008)))
	assert.Equal(t, "high", r.Tier)
	assert.Equal(t, "0.40", cell(t, res.Table, 0, ColNewBid))
}

func TestOutputColumnOrder(t *testing.T) {
	header := []string{
		"Product", "Entity", "Operation",
		"campaign name (informational only)", ColPortfolioName, ColCampaignState,
		ColBid, ColDefaultBid, ColImpressions, ColClicks, ColSpend, ColSales, ColOrders, ColROAS,
	}
	tbl := bulksheet.NewTable("order.csv", header, [][]string{
		{"Sponsored Products", "Keyword", "", "Brand", "", "enabled", "0.50", "0.40", "10", "5", "8", "0", "0", "0"},
	})
	res, err := New(DefaultOptions(), nil).Run(tbl)
	require.NoError(t, err)

	want := []string{
		"Product", "Entity", "Operation",
		"campaign name (informational only)", ColPortfolioName, ColCampaignState,
		ColBid, ColNewBid, ColDefaultBid, ColImpressions, ColClicks, ColSpend, ColSales, ColOrders, ColROAS,
		ColDirection, ColWhy, ColGoal, ColHowMuch, ColSpendShare, ColSalesShare, ColChanges, ColChangesPct,
	}
	if diff := cmp.Diff(want, res.Table.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Update", cell(t, res.Table, 0, "Operation"))
	assert.Equal(t, "Sponsored Products", cell(t, res.Table, 0, "Product"))
	assert.Equal(t, "Brand", res.Records[0].Campaign)
	assert.Equal(t, "enabled", res.Records[0].CampaignState)
	assert.True(t, res.Table.IsNumeric(ColNewBid))
	assert.False(t, res.Table.IsNumeric(ColWhy))
}

func TestMissingColumnsReportedTogether(t *testing.T) {
	header := []string{ColBid, ColDefaultBid, ColSales, ColOrders, ColClicks, ColROAS, ColImpressions, ColPortfolioName, ColCampaignState}
	tbl := bulksheet.NewTable("bad.csv", header, nil)
	_, err := New(DefaultOptions(), nil).Run(tbl)
	var se *bulksheet.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{ColSpend, ColCampaignName}, se.Missing)
	assert.Contains(t, err.Error(), "Spend, Campaign Name (Informational only)")
}

func TestInvalidBounds(t *testing.T) {
	opt := DefaultOptions()
	opt.Floor = decimal.RequireFromString("1")
	opt.Ceiling = decimal.RequireFromString("0.5")
	tbl := bulksheet.NewTable("x.csv", append([]string{}, testHeader...), nil)
	_, err := New(opt, nil).Run(tbl)
	assert.Error(t, err)
}
