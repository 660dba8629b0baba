package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/evaluate"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/utils"
)

var (
	evLoad       loadFlags
	evAlgorithm  string
	evParameter  string
	evAscending  bool
	evResultsDir string
	evForce      bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <dataset> <scores>",
	Short: "Rank detector scores against a dataset's labels and write a result file",
	Long: `Read one anomaly score per row of <dataset> from <scores> (a table with a
"score" column, or one number per line), rank them, predict as many outliers
as the labels hold and write <results-dir>/<algorithm>/<dataset> as a
semicolon separated result table. ROC AUC is printed when both classes occur.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if evAlgorithm == "" {
			return fmt.Errorf("--algorithm is required")
		}
		dir := evResultsDir
		if dir == "" {
			dir = cfg.ResultsDir
		}
		out := evaluate.ResultPath(dir, evAlgorithm, args[0])
		if evaluate.Exists(out) && !evForce {
			fmt.Printf("⚠ Results exist at %s, skipping (use --force to overwrite)\n", out)
			return nil
		}

		ds, err := evLoad.load(args[0], true)
		if err != nil {
			return err
		}
		if !ds.rel.HasLabel {
			return fmt.Errorf("%s has no label column to evaluate against", args[0])
		}
		scores, err := evaluate.FileScorer{Path: args[1]}.Score(ds.rel.Features())
		if err != nil {
			return err
		}
		run := evaluate.Run{
			Dataset:         filepath.Base(args[0]),
			Algorithm:       evAlgorithm,
			Parameter:       evParameter,
			HigherIsOutlier: !evAscending,
		}
		labels := ds.rel.Labels()
		recs, err := evaluate.BuildRecords(run, labels, scores)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := evaluate.WriteRecords(&buf, recs); err != nil {
			return err
		}
		if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return err
		}

		hits := 0
		for _, r := range recs {
			if r.Detect && r.Type == "O" {
				hits++
			}
		}
		fmt.Printf("✓ Wrote %d records to %s\n", len(recs), out)
		fmt.Printf("Outliers detected: %d of %d\n", hits, evaluate.CountOutliers(labels))
		auc, err := evaluate.AUC(scores, labels, run.HigherIsOutlier)
		switch {
		case errors.Is(err, evaluate.ErrSingleClass):
			fmt.Println("⚠ AUC undefined: labels contain a single class")
		case err != nil:
			return err
		default:
			fmt.Printf("ROC AUC: %.4f\n", auc)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evLoad.register(evaluateCmd)
	f := evaluateCmd.Flags()
	f.StringVar(&evAlgorithm, "algorithm", "", "detector name used in records and the result path")
	f.StringVar(&evParameter, "parameter", "", "detector parameter recorded with each row")
	f.BoolVar(&evAscending, "ascending", false, "low scores mark outliers")
	f.StringVar(&evResultsDir, "results-dir", "", "result directory (default: config results_dir)")
	f.BoolVar(&evForce, "force", false, "overwrite an existing result file")
}
