package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/bidopt-cli/internal/optimizer"
	"github.com/KaramelBytes/bidopt-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	batchFlags    runFlags
	batchOutDir   string
	batchFailFast bool
)

var optimizeBatchCmd = &cobra.Command{
	Use:         "optimize-batch <files...>",
	Short:       "Optimize several bulksheet exports with progress output",
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{strictConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				// skip our own output from an earlier run
				if strings.Contains(filepath.Base(m), ".optimized.") {
					continue
				}
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		s, err := batchFlags.resolve(cmd)
		if err != nil {
			return err
		}
		if batchOutDir != "" {
			if err := utils.EnsureDir(batchOutDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		outputs, err := batchOutputs(files, batchOutDir)
		if err != nil {
			return err
		}

		total := len(files)
		var failed []string
		for i, path := range files {
			if !batchFlags.quiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			output := outputs[i]
			res, err := optimizeFile(path, output, s)
			if err != nil {
				if batchFailFast {
					return err
				}
				fmt.Fprintln(os.Stderr, "✗ Error:", userMessage(err))
				failed = append(failed, filepath.Base(path))
				continue
			}
			if !batchFlags.quiet {
				sum := optimizer.Summarize(res, s.sampleRows)
				fmt.Printf("✓ %s: %d rows, %d increased, %d decreased, %d unchanged -> %s\n",
					filepath.Base(path), sum.Rows, sum.Increased, sum.Decreased, sum.Unchanged, output)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %s", len(failed), total, strings.Join(failed, ", "))
		}
		return nil
	},
}

// batchOutputs maps each input to its output path and rejects inputs that
// would write the same file, e.g. a/bulk.csv and b/bulk.csv with --out-dir.
func batchOutputs(files []string, dir string) ([]string, error) {
	outputs := make([]string, len(files))
	owner := map[string]string{}
	for i, path := range files {
		out := utils.SiblingPath(path, "optimized", dir)
		key := filepath.Clean(out)
		if prev, ok := owner[key]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s; run them separately or drop --out-dir", prev, path, out)
		}
		owner[key] = path
		outputs[i] = out
	}
	return outputs, nil
}

func init() {
	rootCmd.AddCommand(optimizeBatchCmd)
	batchFlags.register(optimizeBatchCmd)
	optimizeBatchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for optimized files (default: next to each input)")
	optimizeBatchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "stop at the first file that fails")
}
