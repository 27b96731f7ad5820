package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/bidopt-cli/internal/bulksheet"
	"github.com/KaramelBytes/bidopt-cli/internal/guide"
	"github.com/KaramelBytes/bidopt-cli/internal/optimizer"
	"github.com/KaramelBytes/bidopt-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	optFlags   runFlags
	optOutput  string
	optSummary string
	optGuide   string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <bulksheet>",
	Short: "Apply the bid rules to a CSV/TSV/XLSX bulksheet export",
	Long: `Reads a Sponsored Products bulksheet, evaluates the bid rules for every row and
writes the annotated bulksheet next to the input (<name>.optimized.<ext>) or to --output.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{strictConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		s, err := optFlags.resolve(cmd)
		if err != nil {
			return err
		}
		output := optOutput
		if output == "" {
			output = utils.SiblingPath(input, "optimized", "")
		}
		res, err := optimizeFile(input, output, s)
		if err != nil {
			return err
		}
		if !optFlags.quiet {
			fmt.Printf("✓ Wrote optimized bulksheet to %s\n", output)
		}

		md := optimizer.Summarize(res, s.sampleRows).Markdown()
		if optSummary != "" {
			if err := utils.SafeWriteFile(optSummary, []byte(md)); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !optFlags.quiet {
				fmt.Printf("✓ Wrote summary to %s\n", optSummary)
			}
		} else if !optFlags.quiet {
			fmt.Println(md)
		}

		if optGuide != "" {
			g, err := guide.Markdown(filepath.Base(output), s.engine.Floor, s.engine.Ceiling)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(optGuide, []byte(g)); err != nil {
				return fmt.Errorf("write guide: %w", err)
			}
			if !optFlags.quiet {
				fmt.Printf("✓ Wrote PPC manager guide to %s\n", optGuide)
			}
		}
		return nil
	},
}

// optimizeFile runs one bulksheet through the optimizer and writes the result.
// Nothing is written when reading or optimizing fails.
func optimizeFile(input, output string, s settings) (*optimizer.Result, error) {
	if filepath.Clean(input) == filepath.Clean(output) {
		return nil, fmt.Errorf("output %s would overwrite the input", output)
	}
	tbl, err := bulksheet.Read(input, s.number)
	if err != nil {
		return nil, err
	}
	res, err := optimizer.New(s.engine, logger).Run(tbl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(input), err)
	}
	if err := bulksheet.Write(output, res.Table, s.number); err != nil {
		return nil, err
	}
	return res, nil
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optFlags.register(optimizeCmd)
	optimizeCmd.Flags().StringVarP(&optOutput, "output", "o", "", "path for the optimized bulksheet (.csv, .tsv or .xlsx)")
	optimizeCmd.Flags().StringVar(&optSummary, "summary", "", "write the run summary (Markdown) to this path instead of stdout")
	optimizeCmd.Flags().StringVar(&optGuide, "guide", "", "also write the PPC manager guide (Markdown) to this path")
}
