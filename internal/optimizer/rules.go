package optimizer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier is one band of a rule family. Tiers of a rule partition the metric
// they test, so at most one matches a record.
type Tier struct {
	Label  string
	Range  string // human-readable band, e.g. "Spend > 20"
	Delta  decimal.Decimal
	Reason string // overrides Rule.Reason when set
	Match  func(r *Record) bool
}

// Magnitude describes the tier's adjustment the way bulksheet reviewers read it.
func (t Tier) Magnitude() string {
	verb := "Increased"
	if t.Delta.IsNegative() {
		verb = "Decreased"
	}
	return fmt.Sprintf("%s bids by %s cents", verb, t.Delta.Abs().StringFixed(2))
}

// Rule is a classification predicate and the tiered adjustments it triggers.
type Rule struct {
	ID        string
	Condition string // human-readable predicate
	Reason    string
	Goal      string
	Direction Direction
	Applies   func(r *Record) bool
	Tiers     []Tier
}

func (rule Rule) tier(r *Record) (Tier, bool) {
	for _, t := range rule.Tiers {
		if t.Match(r) {
			return t, true
		}
	}
	return Tier{}, false
}

const (
	goalDecreaseAcos  = "To Decrease Acos"
	goalIncreaseSales = "To Increase Sales"
)

func num(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	zero   = decimal.Zero
	one    = decimal.NewFromInt(1)
	three  = decimal.NewFromInt(3)
	four   = decimal.NewFromInt(4)
	five   = decimal.NewFromInt(5)
	ten    = decimal.NewFromInt(10)
	twenty = decimal.NewFromInt(20)
	thirty = decimal.NewFromInt(30)
	fifty  = decimal.NewFromInt(50)
)

func spendTiers(high, medium, low string) []Tier {
	return []Tier{
		{Label: "high", Range: "Spend > 20", Delta: num(high),
			Match: func(r *Record) bool { return r.Spend.GreaterThan(twenty) }},
		{Label: "medium", Range: "5 <= Spend <= 20", Delta: num(medium),
			Match: func(r *Record) bool {
				return r.Spend.GreaterThanOrEqual(five) && r.Spend.LessThanOrEqual(twenty)
			}},
		{Label: "low", Range: "Spend < 5", Delta: num(low),
			Match: func(r *Record) bool { return r.Spend.LessThan(five) }},
	}
}

func salesTiers(high, medium, low, lowest string) []Tier {
	return []Tier{
		{Label: "high", Range: "Sales >= 100", Delta: num(high),
			Match: func(r *Record) bool { return r.Sales.GreaterThanOrEqual(hundred) }},
		{Label: "medium", Range: "50 <= Sales < 100", Delta: num(medium),
			Match: func(r *Record) bool {
				return r.Sales.GreaterThanOrEqual(fifty) && r.Sales.LessThan(hundred)
			}},
		{Label: "low", Range: "30 <= Sales < 50", Delta: num(low),
			Match: func(r *Record) bool {
				return r.Sales.GreaterThanOrEqual(thirty) && r.Sales.LessThan(fifty)
			}},
		{Label: "lowest", Range: "Sales < 30", Delta: num(lowest),
			Match: func(r *Record) bool { return r.Sales.LessThan(thirty) }},
	}
}

func strongPerformer(r *Record) bool {
	return r.ROAS.GreaterThan(four) && r.Orders.GreaterThan(one) && r.Clicks.GreaterThan(ten)
}

// DefaultRules returns the rule families in evaluation order. Later rules
// overwrite the outcome of earlier ones when both apply.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:        "cost-no-revenue",
			Condition: "Clicks > 0 and Orders = 0",
			Reason:    "Cost but No Revenue",
			Goal:      goalDecreaseAcos,
			Direction: Decrease,
			Applies: func(r *Record) bool {
				return r.Clicks.GreaterThan(zero) && r.Orders.IsZero()
			},
			Tiers: spendTiers("-0.10", "-0.05", "-0.03"),
		},
		{
			ID:        "high-acos",
			Condition: "ROAS < 3 and Orders > 0",
			Reason:    "High ACOS but Overspending",
			Goal:      goalDecreaseAcos,
			Direction: Decrease,
			Applies: func(r *Record) bool {
				return r.ROAS.LessThan(three) && r.Orders.GreaterThan(zero)
			},
			Tiers: spendTiers("-0.15", "-0.10", "-0.07"),
		},
		{
			ID:        "strong-performer",
			Condition: "ROAS > 4 and Orders > 1 and Clicks > 10",
			Reason:    "ROAS > 4, Orders > 1, Clicks > 10",
			Goal:      goalIncreaseSales,
			Direction: Increase,
			Applies:   strongPerformer,
			Tiers:     salesTiers("0.15", "0.12", "0.10", "0.07"),
		},
		{
			ID:        "good-roas",
			Condition: "ROAS >= 3 and not strong-performer",
			Reason:    "ROAS > 3 (Low ACOS)",
			Goal:      goalIncreaseSales,
			Direction: Increase,
			Applies: func(r *Record) bool {
				return r.ROAS.GreaterThanOrEqual(three) && !strongPerformer(r)
			},
			Tiers: salesTiers("0.12", "0.10", "0.08", "0.05"),
		},
		{
			ID:        "no-spend",
			Condition: "Spend = 0",
			Goal:      goalIncreaseSales,
			Direction: Increase,
			Applies:   func(r *Record) bool { return r.Spend.IsZero() },
			Tiers: []Tier{
				{Label: "impressions", Range: "Impressions > 0", Delta: num("0.02"),
					Reason: "No Spend but have Impressions",
					Match:  func(r *Record) bool { return r.Impressions.GreaterThan(zero) }},
				{Label: "no-impressions", Range: "Impressions = 0", Delta: num("0.03"),
					Reason: "No Spend and No Impressions",
					Match:  func(r *Record) bool { return r.Impressions.IsZero() }},
			},
		},
	}
}
