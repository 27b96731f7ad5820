package guide

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMarkdownMentionsOutputAndEveryReason(t *testing.T) {
	md, err := Markdown("bids.optimized.csv", decimal.RequireFromString("0.02"), decimal.RequireFromString("5"))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	for _, want := range []string{
		"`bids.optimized.csv`",
		"between $0.02 and $5.00",
		"| Cost but No Revenue | Clicks are costing money",
		"| High ACOS but Overspending |",
		"| ROAS > 4, Orders > 1, Clicks > 10 |",
		"| ROAS > 3 (Low ACOS) |",
		"| No Spend but have Impressions |",
		"| No Spend and No Impressions | Impressions = 0 | Increased bids by 0.03 cents |",
		"| High ACOS but Overspending | Spend < 5 | Decreased bids by 0.07 cents |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("guide missing %q", want)
		}
	}
	if strings.Contains(md, "|  |") {
		t.Errorf("reason without explanation")
	}
}

func TestRenderProducesText(t *testing.T) {
	out, err := Render("# Title\n\nSome *text*.", 60)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "text") {
		t.Fatalf("unexpected render output: %q", out)
	}
}
