package optimizer

import (
	"fmt"

	"github.com/KaramelBytes/bidopt-cli/internal/bulksheet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Options configures one optimization run.
type Options struct {
	Floor   decimal.Decimal
	Ceiling decimal.Decimal
	// Number controls how numeric cells are parsed.
	Number bulksheet.Options
	// Rules in evaluation order. Nil means DefaultRules.
	Rules []Rule
}

// DefaultOptions returns the Amazon Sponsored Products bid bounds and rule set.
func DefaultOptions() Options {
	return Options{
		Floor:   num("0.02"),
		Ceiling: num("5.00"),
		Number:  bulksheet.DefaultOptions(),
		Rules:   DefaultRules(),
	}
}

// Engine runs the bid optimization pipeline over a bulksheet table.
type Engine struct {
	opt Options
	log *zap.Logger
}

// New returns an engine. A nil logger discards output.
func New(opt Options, log *zap.Logger) *Engine {
	if opt.Rules == nil {
		opt.Rules = DefaultRules()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{opt: opt, log: log}
}

// Result is the outcome of one run. Table holds the annotated output.
type Result struct {
	RunID   uuid.UUID
	Source  string
	Table   *bulksheet.Table
	Records []*Record
	Totals  Totals
	Floor   decimal.Decimal
	Ceiling decimal.Decimal
	Rules   []Rule
}

// Run validates the table, then normalizes, aggregates, evaluates, bounds and
// annotates it in place.
func (e *Engine) Run(t *bulksheet.Table) (*Result, error) {
	if !e.opt.Floor.IsPositive() || !e.opt.Floor.LessThan(e.opt.Ceiling) {
		return nil, fmt.Errorf("invalid bid bounds [%s, %s]: floor must be positive and below ceiling",
			e.opt.Floor, e.opt.Ceiling)
	}
	if err := bulksheet.RequireColumns(t, RequiredColumns, InformationalColumns); err != nil {
		return nil, err
	}
	res := &Result{
		RunID:   uuid.New(),
		Source:  t.Name,
		Table:   t,
		Floor:   e.opt.Floor,
		Ceiling: e.opt.Ceiling,
		Rules:   e.opt.Rules,
	}
	log := e.log.With(zap.String("run", res.RunID.String()), zap.String("file", t.Name))

	res.Records = Normalize(t, e.opt.Number)
	resolveInformational(t, res.Records)
	for _, r := range res.Records {
		if len(r.Coerced) > 0 {
			log.Debug("non-numeric values treated as 0", zap.Int("line", line(r)), zap.Strings("columns", r.Coerced))
		}
	}

	res.Totals = Aggregate(res.Records)
	for _, r := range res.Records {
		e.evaluate(log, r)
	}
	Bound(res.Records, e.opt.Floor, e.opt.Ceiling)
	if err := Annotate(t, res.Records, res.Totals); err != nil {
		return nil, err
	}

	log.Info("optimization complete",
		zap.Int("rows", len(res.Records)),
		zap.String("total_spend", res.Totals.Spend.String()),
		zap.String("total_sales", res.Totals.Sales.String()))
	return res, nil
}

// evaluate applies every rule in order. A later match overwrites the outcome
// of an earlier one.
func (e *Engine) evaluate(log *zap.Logger, r *Record) {
	for _, rule := range e.opt.Rules {
		if !rule.Applies(r) {
			continue
		}
		tier, ok := rule.tier(r)
		if !ok {
			continue
		}
		if r.RuleID != "" {
			log.Debug("rule overrides earlier outcome",
				zap.Int("line", line(r)), zap.String("previous", r.RuleID), zap.String("rule", rule.ID))
		}
		reason := rule.Reason
		if tier.Reason != "" {
			reason = tier.Reason
		}
		r.NewBid = r.Bid.Add(tier.Delta)
		r.Direction = rule.Direction
		r.Reason = reason
		r.Goal = rule.Goal
		r.Magnitude = tier.Magnitude()
		r.RuleID = rule.ID
		r.Tier = tier.Label
		r.Matched = append(r.Matched, rule.ID)
	}
}

// line is the 1-based spreadsheet line of the record, counting the header.
func line(r *Record) int { return r.Row + 2 }
