package optimizer

import (
	"fmt"
	"strings"
)

// TierCount is the number of records that ended in one tier of a rule.
type TierCount struct {
	Label string
	Range string
	Delta string
	Count int
}

// RuleCount summarizes the final outcomes of one rule.
type RuleCount struct {
	ID     string
	Reason string
	Count  int
	Tiers  []TierCount
}

// Summary describes one optimization run for humans.
type Summary struct {
	RunID      string
	File       string
	Rows       int
	TotalSpend string
	TotalSales string
	Floor      string
	Ceiling    string

	Rules     []RuleCount
	Unmatched int

	Increased  int
	Decreased  int
	Unchanged  int
	Clamped    int
	Overridden int
	Defaulted  int
	Coerced    int
	NoPct      int

	Samples []*Record
}

// Summarize counts outcomes per rule and tier and keeps up to sampleRows
// changed records as examples.
func Summarize(res *Result, sampleRows int) *Summary {
	s := &Summary{
		RunID:      res.RunID.String(),
		File:       res.Source,
		Rows:       len(res.Records),
		TotalSpend: res.Totals.Spend.StringFixed(2),
		TotalSales: res.Totals.Sales.StringFixed(2),
		Floor:      res.Floor.StringFixed(2),
		Ceiling:    res.Ceiling.StringFixed(2),
	}
	pos := make(map[string]int, len(res.Rules))
	for i, rule := range res.Rules {
		pos[rule.ID] = i
		rc := RuleCount{ID: rule.ID, Reason: rule.Reason}
		for _, t := range rule.Tiers {
			rc.Tiers = append(rc.Tiers, TierCount{Label: t.Label, Range: t.Range, Delta: signed(t.Delta)})
		}
		s.Rules = append(s.Rules, rc)
	}
	for _, r := range res.Records {
		if r.RuleID == "" {
			s.Unmatched++
		} else if i, ok := pos[r.RuleID]; ok {
			s.Rules[i].Count++
			for k := range s.Rules[i].Tiers {
				if s.Rules[i].Tiers[k].Label == r.Tier {
					s.Rules[i].Tiers[k].Count++
				}
			}
		}
		switch {
		case r.NewBid.GreaterThan(r.Bid):
			s.Increased++
		case r.NewBid.LessThan(r.Bid):
			s.Decreased++
		default:
			s.Unchanged++
		}
		if r.Clamped {
			s.Clamped++
		}
		if len(r.Matched) > 1 {
			s.Overridden++
		}
		if r.Defaulted {
			s.Defaulted++
		}
		s.Coerced += len(r.Coerced)
		if !r.ChangePctOK {
			s.NoPct++
		}
		if r.Changed() && len(s.Samples) < sampleRows {
			s.Samples = append(s.Samples, r)
		}
	}
	return s
}

// Markdown renders the summary in a compact, sectioned text form.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[BID OPTIMIZATION SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", s.RunID))
	if s.File != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.File))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Total spend: %s, total sales: %s\n", s.TotalSpend, s.TotalSales))
	b.WriteString(fmt.Sprintf("Bid bounds: [%s, %s]\n\n", s.Floor, s.Ceiling))

	b.WriteString("[RULES]\n")
	for _, rc := range s.Rules {
		b.WriteString(fmt.Sprintf("- %s: %d", rc.ID, rc.Count))
		if rc.Count > 0 {
			var parts []string
			for _, t := range rc.Tiers {
				if t.Count > 0 {
					parts = append(parts, fmt.Sprintf("%s %s: %d", t.Label, t.Delta, t.Count))
				}
			}
			b.WriteString(" (" + strings.Join(parts, ", ") + ")")
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("- no rule: %d\n\n", s.Unmatched))

	b.WriteString("[CHANGES]\n")
	b.WriteString(fmt.Sprintf("- increased: %d\n", s.Increased))
	b.WriteString(fmt.Sprintf("- decreased: %d\n", s.Decreased))
	b.WriteString(fmt.Sprintf("- unchanged: %d\n", s.Unchanged))
	b.WriteString(fmt.Sprintf("- clamped to bounds: %d\n", s.Clamped))
	b.WriteString(fmt.Sprintf("- overridden by a later rule: %d\n", s.Overridden))

	if len(s.Samples) > 0 {
		b.WriteString("\n[SAMPLE CHANGES]\n")
		b.WriteString("| Campaign | Bid | New Bid | Changes | Why |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, r := range s.Samples {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				safeVal(r.Campaign), formatBid(r.Bid), formatBid(r.NewBid),
				FormatChange(r.Change), safeVal(r.Reason)))
		}
	}

	var notes []string
	if s.Defaulted > 0 {
		notes = append(notes, fmt.Sprintf("%d rows had no bid and used the ad group default bid", s.Defaulted))
	}
	if s.Coerced > 0 {
		notes = append(notes, fmt.Sprintf("%d non-numeric values were treated as 0", s.Coerced))
	}
	if s.NoPct > 0 {
		notes = append(notes, fmt.Sprintf("%d rows have neither bid nor default bid; %% changes is n/a", s.NoPct))
	}
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
