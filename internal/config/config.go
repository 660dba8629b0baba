package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appDir = ".catds"

// Global configuration structure.
type Global struct {
	// TypesFile is the dataset type map (name -> column types).
	TypesFile   string `mapstructure:"types_file" yaml:"types_file"`
	LabelColumn string `mapstructure:"label_column" yaml:"label_column"`
	// Delimiter for CSV input and transformed output; empty means a comma
	// (tab for .tsv input).
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	ResultsDir string `mapstructure:"results_dir" yaml:"results_dir"`
	RunsDir    string `mapstructure:"runs_dir" yaml:"runs_dir"`

	Seed              uint64 `mapstructure:"seed" yaml:"seed"`
	ConstantPolicy    string `mapstructure:"constant_policy" yaml:"constant_policy"`
	RestoreCategories bool   `mapstructure:"restore_categories" yaml:"restore_categories"`

	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	TopCategories int    `mapstructure:"top_categories" yaml:"top_categories"`
}

// Dir returns ~/.catds.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, appDir), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.catds/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CATDS")
	v.AutomaticEnv()

	v.SetDefault("types_file", "")
	v.SetDefault("label_column", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("output_dir", "transformed")
	v.SetDefault("results_dir", "results")
	v.SetDefault("seed", 1)
	v.SetDefault("constant_policy", "zero")
	v.SetDefault("restore_categories", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("top_categories", 5)

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// The default file is optional; an explicit one must exist and parse.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.RunsDir == "" {
		c.RunsDir = filepath.Join(dir, "runs")
	}
	return &c, nil
}

// DelimiterRune returns the configured delimiter, or 0 when unset. "tab"
// and "\t" both mean a tab.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", c.Delimiter)
	}
	return r[0], nil
}
