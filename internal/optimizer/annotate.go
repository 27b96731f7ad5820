package optimizer

import (
	"fmt"

	"github.com/KaramelBytes/bidopt-cli/internal/bulksheet"
)

// Annotate writes the outcome columns into the table. Output columns already in
// the header are overwritten in place, the rest are appended in OutputColumns
// order, and New Bid is moved to directly follow Bid.
func Annotate(t *bulksheet.Table, recs []*Record, tot Totals) error {
	idx := make(map[string]int, len(OutputColumns))
	for _, name := range OutputColumns {
		idx[name] = t.EnsureColumn(name)
	}
	for _, r := range recs {
		values := map[string]string{
			ColNewBid:     formatBid(r.NewBid),
			ColDirection:  string(r.Direction),
			ColWhy:        r.Reason,
			ColGoal:       r.Goal,
			ColHowMuch:    r.Magnitude,
			ColOperation:  r.Operation,
			ColSpendShare: FormatShare(r.SpendShare, tot.Spend),
			ColSalesShare: FormatShare(r.SalesShare, tot.Sales),
			ColChanges:    FormatChange(r.Change),
			ColChangesPct: FormatChangePct(r.ChangePct, r.ChangePctOK),
		}
		for name, v := range values {
			t.Set(r.Row, idx[name], v)
		}
	}
	if err := t.MoveAfter(ColNewBid, ColBid); err != nil {
		return fmt.Errorf("annotate: %w", err)
	}
	t.MarkNumeric(append(NumericColumns(), ColNewBid)...)
	return nil
}
