package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/bidopt-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bidopt configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "bid_floor: %.2f\n", cfg.BidFloor)
		fmt.Fprintf(w, "bid_ceiling: %.2f\n", cfg.BidCeiling)
		if cfg.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.Decimal != "" {
			fmt.Fprintf(w, "decimal: %s\n", cfg.Decimal)
		}
		if cfg.Thousands != "" {
			fmt.Fprintf(w, "thousands: %s\n", cfg.Thousands)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(w, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		next := *cfg
		switch key {
		case "bid_floor", "bid_ceiling":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			if key == "bid_floor" {
				next.BidFloor = f
			} else {
				next.BidCeiling = f
			}
		case "delimiter":
			next.Delimiter = val
		case "decimal":
			next.Decimal = strings.ToLower(val)
		case "thousands":
			next.Thousands = strings.ToLower(val)
		case "sheet_name":
			next.SheetName = val
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for sample_rows: %w", err)
			}
			next.SampleRows = i
		case "log_level":
			next.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
