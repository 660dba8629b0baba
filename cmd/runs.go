package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/experiment"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/utils"
)

var runsJSON bool

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded transform-batch runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := experiment.ListRuns(cfg.RunsDir)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs found")
			return nil
		}
		for _, r := range runs {
			c := r.Counts()
			name := r.Name
			if name == "" {
				name = "-"
			}
			fmt.Printf("%s  %-16s  %s  done=%d skipped=%d failed=%d\n",
				r.ID[:8], name, r.CreatedAt.Format("2006-01-02 15:04"),
				c[experiment.StatusDone], c[experiment.StatusSkipped], c[experiment.StatusFailed])
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show the per-dataset outcome of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := experiment.FindRun(cfg.RunsDir, args[0])
		if err != nil {
			return err
		}
		if runsJSON {
			b, err := utils.PrettyJSON(r)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Printf("Run: %s\n", r.ID)
		if r.Name != "" {
			fmt.Printf("Name: %s\n", r.Name)
		}
		fmt.Printf("Seed: %d  Constant policy: %s\n", r.Seed, r.ConstantPolicy)
		if r.TypesFile != "" {
			fmt.Printf("Types: %s\n", r.TypesFile)
		}
		for _, e := range r.Entries() {
			line := fmt.Sprintf("  [%s] %s", e.Status, e.Source)
			switch e.Status {
			case experiment.StatusDone:
				line += fmt.Sprintf(" -> %s (%d rows, %d/%d categorical, %s", e.Output, e.Rows, e.CategoricalCols, e.Cols, e.Pivot.Path)
				if len(e.Pivot.PivotRows) > 0 {
					line += fmt.Sprintf(", pivots %s", joinInts(e.Pivot.PivotRows))
				}
				if e.Pivot.CutPoint > 0 {
					line += fmt.Sprintf(", cut point %d", e.Pivot.CutPoint)
				}
				line += ")"
			case experiment.StatusFailed:
				line += ": " + e.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, ",")
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsShowCmd.Flags().BoolVar(&runsJSON, "json", false, "print the raw run manifest")
}
