package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/bidopt-cli/internal/bulksheet"
	cfgpkg "github.com/KaramelBytes/bidopt-cli/internal/config"
	"github.com/KaramelBytes/bidopt-cli/internal/optimizer"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// runFlags are the input and engine flags shared by optimize and optimize-batch.
type runFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	bidFloor   float64
	bidCeiling float64
	sampleRows int
	quiet      bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to optimize")
	fs.IntVar(&f.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.Float64Var(&f.bidFloor, "bid-floor", 0, "lowest allowed bid (overrides config)")
	fs.Float64Var(&f.bidCeiling, "bid-ceiling", 0, "highest allowed bid (overrides config)")
	fs.IntVar(&f.sampleRows, "sample-rows", 0, "number of changed rows to show in the summary (overrides config)")
	fs.BoolVar(&f.quiet, "quiet", false, "suppress the summary and non-essential output")
}

// settings is the resolved configuration for one optimization run.
type settings struct {
	number     bulksheet.Options
	engine     optimizer.Options
	sampleRows int
}

// resolve merges config values with flags; flags win when set.
func (f *runFlags) resolve(cmd *cobra.Command) (settings, error) {
	c := cfg
	if c == nil {
		c = &cfgpkg.Global{BidFloor: 0.02, BidCeiling: 5, SampleRows: 5}
	}
	changed := cmd.Flags().Changed

	delim, dec, thou, sheet := c.Delimiter, c.Decimal, c.Thousands, c.SheetName
	if changed("delimiter") {
		delim = f.delimiter
	}
	if changed("decimal") {
		dec = f.decimal
	}
	if changed("thousands") {
		thou = f.thousands
	}
	if changed("sheet-name") {
		sheet = f.sheetName
	}
	number, err := numberOptions(delim, dec, thou)
	if err != nil {
		return settings{}, err
	}
	number.SheetName = sheet
	number.SheetIndex = f.sheetIndex

	floor, ceiling := c.BidFloor, c.BidCeiling
	if changed("bid-floor") {
		floor = f.bidFloor
	}
	if changed("bid-ceiling") {
		ceiling = f.bidCeiling
	}
	eng := optimizer.DefaultOptions()
	eng.Floor = decimal.NewFromFloat(floor)
	eng.Ceiling = decimal.NewFromFloat(ceiling)
	eng.Number = number

	sample := c.SampleRows
	if changed("sample-rows") {
		sample = f.sampleRows
	}
	return settings{number: number, engine: eng, sampleRows: sample}, nil
}

func numberOptions(delim, dec, thou string) (bulksheet.Options, error) {
	opt := bulksheet.DefaultOptions()
	switch delim {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
	}
	switch strings.ToLower(strings.TrimSpace(dec)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", dec)
	}
	switch strings.ToLower(thou) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thou)
	}
	return opt, nil
}
