package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the directories and policies of a pipeline run.
type Config struct {
	InputDir       string `mapstructure:"input_dir"`
	OutputDir      string `mapstructure:"output_dir"`
	ArchiveDir     string `mapstructure:"archive_dir"`
	Layout         string `mapstructure:"layout"`
	OutputBasename string `mapstructure:"output_basename"`
	ByPDV          bool   `mapstructure:"by_pdv"`
	Reports        bool   `mapstructure:"reports"`
	Archive        bool   `mapstructure:"archive"`
	StrictNumbers  bool   `mapstructure:"strict_numbers"`
}

// flagBindings maps CLI flag names to config keys.
var flagBindings = map[string]string{
	"output":         "output_dir",
	"input":          "input_dir",
	"archive-dir":    "archive_dir",
	"layout":         "layout",
	"basename":       "output_basename",
	"reports":        "reports",
	"strict-numbers": "strict_numbers",
}

// Build assembles the configuration from, in rising precedence: defaults,
// the YAML config file, ESTOQUEGIRO_* environment variables and CLI flags.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("input_dir", "data/input")
	v.SetDefault("output_dir", "data/output")
	v.SetDefault("archive_dir", "data/archived")
	v.SetDefault("layout", "")
	v.SetDefault("output_basename", "consolidated")
	v.SetDefault("by_pdv", true)
	v.SetDefault("reports", false)
	v.SetDefault("archive", true)
	v.SetDefault("strict_numbers", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("ESTOQUEGIRO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
