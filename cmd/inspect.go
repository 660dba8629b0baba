package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/analysis"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/utils"
)

var (
	inLoad       loadFlags
	inOut        string
	inTop        int
	inOutlierThr float64
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile a dataset and report what the transform will do",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := inLoad.load(args[0], false)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		if cfg.TopCategories > 0 {
			opt.TopValues = cfg.TopCategories
		}
		if inTop > 0 {
			opt.TopValues = inTop
		}
		if cmd.Flags().Changed("outlier-threshold") {
			opt.OutlierThreshold = inOutlierThr
		}
		rep, err := analysis.Profile(ds.rel, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if inOut == "" {
			fmt.Print(md)
			return nil
		}
		if err := utils.EnsureDir(filepath.Dir(inOut)); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(inOut, []byte(md)); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote profile of %s (types from %s) to %s\n", filepath.Base(ds.path), ds.typesFrom, inOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inLoad.register(inspectCmd)
	inspectCmd.Flags().StringVarP(&inOut, "output", "o", "", "write the markdown report to a file instead of stdout")
	inspectCmd.Flags().IntVar(&inTop, "top", 0, "categories listed per column (default: config top_categories)")
	inspectCmd.Flags().Float64Var(&inOutlierThr, "outlier-threshold", 0, "robust z-score threshold for numeric outlier counts (0 disables)")
}
