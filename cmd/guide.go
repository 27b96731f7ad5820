package cmd

import (
	"fmt"

	"github.com/KaramelBytes/bidopt-cli/internal/guide"
	"github.com/KaramelBytes/bidopt-cli/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	guideOutput string
	guideFor    string
	guideRaw    bool
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show or write the PPC manager guide for optimized bulksheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		floor, ceiling := 0.02, 5.0
		if cfg != nil {
			floor, ceiling = cfg.BidFloor, cfg.BidCeiling
		}
		md, err := guide.Markdown(guideFor, decimal.NewFromFloat(floor), decimal.NewFromFloat(ceiling))
		if err != nil {
			return err
		}
		if guideOutput != "" {
			if err := utils.SafeWriteFile(guideOutput, []byte(md)); err != nil {
				return fmt.Errorf("write guide: %w", err)
			}
			fmt.Printf("✓ Wrote PPC manager guide to %s\n", guideOutput)
			return nil
		}
		if guideRaw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		out, err := guide.Render(md, 100)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)
	guideCmd.Flags().StringVarP(&guideOutput, "output", "o", "", "write the guide (Markdown) to this path")
	guideCmd.Flags().StringVar(&guideFor, "for", "youroutput_file.csv", "optimized file name to mention in the guide")
	guideCmd.Flags().BoolVar(&guideRaw, "raw", false, "print Markdown without terminal rendering")
}
