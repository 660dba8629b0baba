package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/experiment"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/parser"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/utils"
)

var (
	tbLoad     loadFlags
	tbOutDir   string
	tbOutDelim string
	tbName     string
	tbRestore  bool
	tbForce    bool
	tbQuiet    bool
)

var transformBatchCmd = &cobra.Command{
	Use:   "transform-batch <files|dirs|globs...>",
	Short: "Transform many datasets and record the run",
	Long: `Transform every supported dataset (CSV/TSV/ARFF/XLSX) matched by the
arguments. Existing outputs are skipped unless --force is given. A failing
dataset is recorded and the batch moves on; the run manifest lists the
outcome of each input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandInputs(args, parser.Supported)
		if err != nil {
			return err
		}
		outDir := tbOutDir
		if outDir == "" {
			outDir = cfg.OutputDir
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return err
		}
		restore := tbRestore
		if !cmd.Flags().Changed("restore-categories") {
			restore = cfg.RestoreCategories
		}
		policy := tbLoad.policy
		if policy == "" {
			policy = cfg.ConstantPolicy
		}
		run := experiment.NewRun(tbName, cfg.RunsDir, cfg.Seed, policy)
		run.TypesFile = tbLoad.types
		if run.TypesFile == "" {
			run.TypesFile = cfg.TypesFile
		}

		used := map[string]int{}
		total := len(files)
		for i, path := range files {
			if !tbQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			out := batchOutputPath(outDir, path, used)
			entry := &experiment.DatasetEntry{Source: path, Output: out}
			if _, err := os.Stat(out); err == nil && !tbForce {
				entry.Status = experiment.StatusSkipped
				run.AddDataset(entry)
				if !tbQuiet {
					fmt.Printf("⚠ Skipping %s: %s exists (use --force to overwrite)\n", filepath.Base(path), out)
				}
				continue
			}
			if err := transformOne(path, out, restore, entry); err != nil {
				entry.Status = experiment.StatusFailed
				entry.Error = err.Error()
				entry.Output = ""
				run.AddDataset(entry)
				logger.Warn("dataset failed", zap.String("source", path), zap.Error(err))
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(path), err)
				continue
			}
			entry.Status = experiment.StatusDone
			run.AddDataset(entry)
			if !tbQuiet {
				fmt.Printf("✓ %s -> %s (%s path)\n", filepath.Base(path), out, entry.Pivot.Path)
			}
		}

		if err := run.Save(); err != nil {
			return err
		}
		counts := run.Counts()
		fmt.Printf("✓ Run %s: %d done, %d skipped, %d failed (manifest: %s)\n",
			run.ID, counts[experiment.StatusDone], counts[experiment.StatusSkipped], counts[experiment.StatusFailed],
			filepath.Join(run.RootDir(), "run.json"))
		if n := counts[experiment.StatusFailed]; n > 0 {
			return fmt.Errorf("%d of %d datasets failed", n, total)
		}
		return nil
	},
}

func transformOne(path, out string, restore bool, entry *experiment.DatasetEntry) error {
	ds, err := tbLoad.load(path, false)
	if err != nil {
		return err
	}
	entry.Rows = ds.rel.NumRows()
	entry.Cols = ds.rel.NumCols()
	entry.CategoricalCols = len(ds.rel.CategoricalColumns())
	res, err := normalize(ds.rel, cfg.Seed)
	if err != nil {
		return err
	}
	entry.Pivot = res
	data, err := encodeRelation(ds.rel, tbOutDelim, restore)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(out, data)
}

// batchOutputPath names the output after the input stem. Inputs sharing a
// stem within one batch get a __N suffix.
func batchOutputPath(outDir, path string, used map[string]int) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	used[stem]++
	if n := used[stem]; n > 1 {
		stem = fmt.Sprintf("%s__%d", stem, n)
	}
	return filepath.Join(outDir, stem+".csv")
}

func init() {
	rootCmd.AddCommand(transformBatchCmd)
	tbLoad.register(transformBatchCmd)
	f := transformBatchCmd.Flags()
	f.StringVar(&tbOutDir, "output-dir", "", "directory for transformed CSVs (default: config output_dir)")
	f.StringVar(&tbOutDelim, "output-delimiter", "", "delimiter for the written CSVs (default: config delimiter, else ',')")
	f.StringVar(&tbName, "name", "", "name recorded in the run manifest")
	f.BoolVar(&tbRestore, "restore-categories", false, "write original category values instead of pivot distances")
	f.BoolVar(&tbForce, "force", false, "overwrite existing outputs")
	f.BoolVar(&tbQuiet, "quiet", false, "suppress per-file progress output")
}
