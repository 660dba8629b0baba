package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Felippe-Pires/CategoricalDatasets/internal/config"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/logging"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set catds configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("types_file: %s\n", cfg.TypesFile)
		if cfg.LabelColumn != "" {
			fmt.Printf("label_column: %s\n", cfg.LabelColumn)
		}
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("results_dir: %s\n", cfg.ResultsDir)
		fmt.Printf("runs_dir: %s\n", cfg.RunsDir)
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("constant_policy: %s\n", cfg.ConstantPolicy)
		fmt.Printf("restore_categories: %t\n", cfg.RestoreCategories)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("top_categories: %d\n", cfg.TopCategories)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "types_file":
			cfg.TypesFile = val
		case "label_column":
			cfg.LabelColumn = val
		case "delimiter":
			prev := cfg.Delimiter
			cfg.Delimiter = val
			if _, err := cfg.DelimiterRune(); err != nil {
				cfg.Delimiter = prev
				return err
			}
		case "output_dir":
			cfg.OutputDir = val
		case "results_dir":
			cfg.ResultsDir = val
		case "runs_dir":
			cfg.RunsDir = val
		case "seed":
			n, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid uint for seed: %v", val)
			}
			cfg.Seed = n
		case "constant_policy":
			p, err := relation.ParseConstantPolicy(val)
			if err != nil {
				return err
			}
			cfg.ConstantPolicy = string(p)
		case "restore_categories":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for restore_categories: %v", val)
			}
			cfg.RestoreCategories = b
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = val
		case "top_categories":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for top_categories: %v", val)
			}
			cfg.TopCategories = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
