package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/bidopt-cli/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Platform bid bounds applied after rule evaluation.
	BidFloor   float64 `mapstructure:"bid_floor" yaml:"bid_floor" validate:"gt=0"`
	BidCeiling float64 `mapstructure:"bid_ceiling" yaml:"bid_ceiling" validate:"gtfield=BidFloor"`

	// Input parsing
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,oneof=0x2C ; tab"`
	Decimal   string `mapstructure:"decimal" yaml:"decimal" validate:"omitempty,oneof=0x2C . dot comma"`
	Thousands string `mapstructure:"thousands" yaml:"thousands" validate:"omitempty,oneof=0x2C . space"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`

	SampleRows int    `mapstructure:"sample_rows" yaml:"sample_rows" validate:"gte=0"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Validate checks field constraints and reports every violation at once.
func (c *Global) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), describeTag(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// DefaultPath returns ~/.bidopt/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".bidopt", "config.yaml"), nil
}

// Defaults returns the configuration used when no file or env overrides exist.
func Defaults() *Global {
	return &Global{BidFloor: 0.02, BidCeiling: 5.00, SampleRows: 5, LogLevel: "warn"}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bidopt/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BIDOPT")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("bid_floor", d.BidFloor)
	v.SetDefault("bid_ceiling", d.BidCeiling)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("decimal", d.Decimal)
	v.SetDefault("thousands", d.Thousands)
	v.SetDefault("sheet_name", d.SheetName)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("log_level", d.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".bidopt"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
