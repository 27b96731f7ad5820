package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/KaramelBytes/bidopt-cli/internal/bulksheet"
	cfgpkg "github.com/KaramelBytes/bidopt-cli/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = zap.NewNop()
)

// strictConfig marks commands that must not run on fallback defaults when the
// config fails to load.
const strictConfig = "strict-config"

var rootCmd = &cobra.Command{
	Use:   "bidopt",
	Short: "Rule-based bid optimizer for Amazon Sponsored Products bulksheets",
	Long: `bidopt reads an Amazon Sponsored Products bulksheet export, applies a fixed,
ordered set of bid rules to every keyword and target, and writes the bulksheet back
with a suggested New Bid and the reason for each change, ready for upload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			if cmd.Annotations[strictConfig] != "" {
				return err
			}
			// Non-fatal: config commands must still be able to repair the file
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using defaults\n", err)
			cfg = cfgpkg.Defaults()
		}
		l, err := newLogger(cfg.LogLevel, debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", userMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bidopt/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	return nil
}

// newLogger builds a console logger on stderr so stdout stays clean for reports.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	lvl := zapcore.WarnLevel
	if level != "" {
		l, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = l
	}
	if debug {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

// userMessage turns resource errors into the short form users expect.
func userMessage(err error) string {
	var re *bulksheet.ResourceError
	if errors.As(err, &re) && errors.Is(re.Err, fs.ErrNotExist) {
		return fmt.Sprintf("Input file not found: %s. Please check the file path and ensure the file exists.", re.Path)
	}
	return err.Error()
}
