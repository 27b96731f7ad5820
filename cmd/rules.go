package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/bidopt-cli/internal/optimizer"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the bid rules in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		printRules(cmd.OutOrStdout(), optimizer.DefaultRules())
		return nil
	},
}

func printRules(w io.Writer, rules []optimizer.Rule) {
	for i, r := range rules {
		fmt.Fprintf(w, "%d. %s: %s (%s, %s)\n", i+1, r.ID, r.Condition, r.Direction, r.Goal)
		for _, t := range r.Tiers {
			reason := r.Reason
			if t.Reason != "" {
				reason = t.Reason
			}
			fmt.Fprintf(w, "   - %-18s %-28s %s\n", t.Range, t.Magnitude(), reason)
		}
	}
	fmt.Fprintln(w, "\nRules are evaluated top to bottom; when several apply, the last one wins.")
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
