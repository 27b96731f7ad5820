package optimizer

import "github.com/shopspring/decimal"

// Input columns of an Amazon Sponsored Products bulksheet.
const (
	ColBid         = "Bid"
	ColDefaultBid  = "Ad Group Default Bid (Informational only)"
	ColSpend       = "Spend"
	ColSales       = "Sales"
	ColOrders      = "Orders"
	ColClicks      = "Clicks"
	ColROAS        = "ROAS"
	ColImpressions = "Impressions"

	ColCampaignName  = "Campaign Name (Informational only)"
	ColPortfolioName = "Portfolio Name (Informational only)"
	ColCampaignState = "Campaign State (Informational only)"
)

// Columns written by the optimizer, in append order.
const (
	ColNewBid     = "New Bid"
	ColDirection  = "Increase or decrease"
	ColWhy        = "Why"
	ColGoal       = "Goal"
	ColHowMuch    = "How much"
	ColOperation  = "Operation"
	ColSpendShare = "Spend%"
	ColSalesShare = "Sale%"
	ColChanges    = "Changes"
	ColChangesPct = "% changes"
)

// RequiredColumns must be present with exactly these names.
var RequiredColumns = []string{
	ColBid, ColDefaultBid, ColSpend, ColSales, ColOrders, ColClicks, ColROAS, ColImpressions,
}

// InformationalColumns must be present but are matched case-insensitively.
var InformationalColumns = []string{ColCampaignName, ColPortfolioName, ColCampaignState}

// OutputColumns lists annotation columns in the order they are appended.
var OutputColumns = []string{
	ColNewBid, ColDirection, ColWhy, ColGoal, ColHowMuch, ColOperation,
	ColSpendShare, ColSalesShare, ColChanges, ColChangesPct,
}

// OperationUpdate is the bulksheet operation stamped on every row.
const OperationUpdate = "Update"

// Direction of a bid change.
type Direction string

const (
	Increase Direction = "Increase"
	Decrease Direction = "Decrease"
)

// Record is one keyword/target row as seen by the pipeline. Row indexes back
// into the source table.
type Record struct {
	Row int

	Campaign      string
	Portfolio     string
	CampaignState string

	Bid         decimal.Decimal
	DefaultBid  decimal.Decimal
	Spend       decimal.Decimal
	Sales       decimal.Decimal
	Orders      decimal.Decimal
	Clicks      decimal.Decimal
	Impressions decimal.Decimal
	ROAS        decimal.Decimal

	SpendShare decimal.Decimal
	SalesShare decimal.Decimal

	NewBid    decimal.Decimal
	Direction Direction
	Reason    string
	Goal      string
	Magnitude string
	Operation string

	// RuleID and Tier identify the outcome that stuck; Matched lists every
	// rule that applied, in evaluation order.
	RuleID  string
	Tier    string
	Matched []string

	Defaulted bool // Bid was taken from the ad group default
	Clamped   bool
	Coerced   []string // designated columns holding non-numeric text

	Change      decimal.Decimal
	ChangePct   decimal.Decimal
	ChangePctOK bool // false when Bid is zero
}

// Changed reports whether the bid moves.
func (r *Record) Changed() bool { return !r.NewBid.Equal(r.Bid) }
