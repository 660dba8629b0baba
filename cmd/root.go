package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/Felippe-Pires/CategoricalDatasets/internal/config"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string
	flagSeed uint64

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "catds",
	Short: "catds: pivot-based preprocessing of categorical outlier datasets",
	Long: `catds converts the categorical columns of outlier-detection datasets into
continuous distance-to-pivot features so that distance-based detectors can run on
mixed-type tables, and turns detector scores into ranked result files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.catds/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "random seed for pivot selection (overrides config)")
}

func loadConfig(cmd *cobra.Command) error {
	c, err := cfgpkg.Load(cfgFile)
	switch {
	case err == nil:
	case cfgFile != "" && !(cmd == configSetCmd && errors.Is(err, fs.ErrNotExist)):
		// an explicit --config must load; only `config set` may create it
		return err
	case cfgFile != "":
		c = &cfgpkg.Global{ConstantPolicy: "zero", Seed: 1, TopCategories: 5}
	default:
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{ConstantPolicy: "zero", Seed: 1, TopCategories: 5}
	}
	cfg = c

	f := cmd.Root().PersistentFlags()
	if f.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if f.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	l, err := logging.New(cfg.LogLevel, debug)
	if err != nil {
		return err
	}
	logger = l
	return nil
}
