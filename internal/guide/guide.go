// Package guide produces the PPC manager guide that accompanies an optimized
// bulksheet.
package guide

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/KaramelBytes/bidopt-cli/internal/optimizer"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

//go:embed guide.md.tmpl
var guideTmpl string

var tmpl = template.Must(template.New("guide").Parse(guideTmpl))

// explanations for each rule, keyed by reason.
var explanations = map[string][2]string{
	"Cost but No Revenue": {
		"Clicks are costing money but produced no orders.",
		"Lower the bid to cut wasted spend.",
	},
	"High ACOS but Overspending": {
		"Orders come in, but at a cost that makes ROAS fall under 3.",
		"Lower the bid to recover profitability.",
	},
	"ROAS > 4, Orders > 1, Clicks > 10": {
		"A proven performer: strong ROAS, repeat orders and steady traffic.",
		"Raise the bid to capture more volume.",
	},
	"ROAS > 3 (Low ACOS)": {
		"Profitable, with room to grow.",
		"Raise the bid moderately.",
	},
	"No Spend but have Impressions": {
		"Shown to shoppers but never clicked, so nothing spent yet.",
		"Raise the bid slightly to test it.",
	},
	"No Spend and No Impressions": {
		"Not serving at all.",
		"Raise the bid slightly to get it into auctions.",
	},
}

type ruleRow struct{ Reason, Meaning, Action string }

type tierRow struct{ Rule, Range, Delta string }

type data struct {
	Output  string
	Floor   string
	Ceiling string
	Rules   []ruleRow
	Tiers   []tierRow
}

// Markdown returns the guide for the given output file name and bid bounds.
func Markdown(output string, floor, ceiling decimal.Decimal) (string, error) {
	d := data{Output: output, Floor: floor.StringFixed(2), Ceiling: ceiling.StringFixed(2)}
	seen := map[string]bool{}
	for _, rule := range optimizer.DefaultRules() {
		for _, t := range rule.Tiers {
			reason := rule.Reason
			if t.Reason != "" {
				reason = t.Reason
			}
			if !seen[reason] {
				seen[reason] = true
				ex := explanations[reason]
				d.Rules = append(d.Rules, ruleRow{Reason: reason, Meaning: ex[0], Action: ex[1]})
			}
			d.Tiers = append(d.Tiers, tierRow{Rule: reason, Range: t.Range, Delta: t.Magnitude()})
		}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, d); err != nil {
		return "", fmt.Errorf("render guide: %w", err)
	}
	return b.String(), nil
}

// Render formats Markdown for the terminal.
func Render(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("init renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
