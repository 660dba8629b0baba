// Package analysis profiles a loaded dataset before it is transformed.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/pivot"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// Options controls profiling.
type Options struct {
	// TopValues is how many of the most frequent categories are listed.
	TopValues int
	// OutlierThreshold is the robust z-score (MAD based) above which a
	// numeric value is counted as an outlier. 0 disables the count.
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{TopValues: 5, OutlierThreshold: 3.5}
}

// Report is a markdown-friendly profile of a relation.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Labels   LabelSummary
	Path     pivot.Path
	Warnings []string
}

// ColumnSummary captures statistics of one data column.
type ColumnSummary struct {
	Name   string
	Kind   string // numeric|categorical
	Unique int
	// Numeric stats
	Min    float64
	Max    float64
	Mean   float64
	Std    float64
	Median float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical stats
	TopValues  []CategoryCount
	CutPoint   int
	RareValues []string
}

// CategoryCount is one category with its display value.
type CategoryCount struct {
	Value string
	Count int
}

// LabelSummary counts ground-truth classes.
type LabelSummary struct {
	Column   string
	Inliers  int
	Outliers int
	Other    int
}

// Profile computes the report for rel. It reads current values, so it
// should run before Normalize.
func Profile(rel *relation.Relation, opt Options) (*Report, error) {
	if opt.TopValues <= 0 {
		opt.TopValues = DefaultOptions().TopValues
	}
	rep := &Report{Name: rel.Name, Rows: rel.NumRows()}
	if rel.IsNormalized() {
		rep.Warnings = append(rep.Warnings, "relation is already normalized; values are transformed features")
	}

	ncat := 0
	for j := 0; j < rel.NumCols(); j++ {
		name := fmt.Sprintf("col%d", j)
		if j < len(rel.Header) {
			name = rel.Header[j]
		}
		var (
			s   ColumnSummary
			err error
		)
		if rel.IsCategorical(j) {
			ncat++
			s = categorical(rel, j, opt)
			if s.Unique == 1 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has a single category", name))
			}
		} else {
			s, err = numeric(rel.Column(j), opt)
			if err != nil {
				return nil, fmt.Errorf("profile column %s: %w", name, err)
			}
			if rep.Rows > 0 && s.Min == s.Max {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s is constant", name))
			}
		}
		s.Name = name
		rep.Cols = append(rep.Cols, s)
	}

	switch {
	case ncat == 0:
		rep.Path = pivot.PathNone
	case ncat == 1:
		rep.Path = pivot.PathSingle
	default:
		rep.Path = pivot.PathMulti
		if rep.Rows < ncat {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d rows for %d categorical columns; pivots will repeat", rep.Rows, ncat))
		}
	}

	if rel.HasLabel {
		rep.Labels.Column = rel.LabelName
		for _, l := range rel.Labels() {
			switch l {
			case relation.Inlier:
				rep.Labels.Inliers++
			case relation.Outlier:
				rep.Labels.Outliers++
			default:
				rep.Labels.Other++
			}
		}
		if rep.Labels.Outliers == 0 {
			rep.Warnings = append(rep.Warnings, "no rows are labelled as outliers")
		}
	} else {
		rep.Warnings = append(rep.Warnings, "dataset has no label column")
	}
	return rep, nil
}

func categorical(rel *relation.Relation, j int, opt Options) ColumnSummary {
	counts := rel.CategoryCounts(j)
	s := ColumnSummary{Kind: "categorical", Unique: len(counts)}

	byFreq := make([]relation.CategoryCount, len(counts))
	copy(byFreq, counts)
	sort.SliceStable(byFreq, func(a, b int) bool { return byFreq[a].Count > byFreq[b].Count })
	for i := 0; i < len(byFreq) && i < opt.TopValues; i++ {
		s.TopValues = append(s.TopValues, CategoryCount{Value: display(rel, j, byFreq[i].Value), Count: byFreq[i].Count})
	}

	sorted := pivot.SortedCategories(counts)
	s.CutPoint = pivot.CutPoint(pivot.Frequencies(sorted))
	for _, c := range sorted[:s.CutPoint] {
		s.RareValues = append(s.RareValues, display(rel, j, c.Value))
	}
	return s
}

func numeric(col []float64, opt Options) (ColumnSummary, error) {
	s := ColumnSummary{Kind: "numeric", Unique: countUnique(col)}
	if len(col) == 0 {
		return s, nil
	}
	var err error
	if s.Min, err = stats.Min(col); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(col); err != nil {
		return s, err
	}
	if s.Mean, err = stats.Mean(col); err != nil {
		return s, err
	}
	if len(col) > 1 {
		if s.Std, err = stats.StandardDeviationSample(col); err != nil {
			return s, err
		}
	}
	if s.Median, err = stats.Median(col); err != nil {
		return s, err
	}
	if opt.OutlierThreshold > 0 {
		mad, err := stats.MedianAbsoluteDeviationPopulation(col)
		if err != nil {
			return s, err
		}
		s.OutlierThreshold = opt.OutlierThreshold
		if mad > 0 {
			for _, v := range col {
				z := math.Abs(0.6745 * (v - s.Median) / mad)
				if z > opt.OutlierThreshold {
					s.OutliersCount++
				}
				if z > s.OutliersMaxAbsZ {
					s.OutliersMaxAbsZ = z
				}
			}
		}
	}
	return s, nil
}

func countUnique(col []float64) int {
	seen := make(map[float64]struct{}, len(col))
	for _, v := range col {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func display(rel *relation.Relation, j int, v float64) string {
	if d := rel.Dictionary(j); d != nil {
		if s, ok := d.Label(v); ok {
			return s
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Markdown renders a compact report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	b.WriteString(fmt.Sprintf("Pivot path: %s\n\n", r.Path))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (unique %d)", safeName(c.Name), c.Kind, c.Unique))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g, median %.4g", c.Min, c.Max, c.Mean, c.Std, c.Median))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			}
			b.WriteString(fmt.Sprintf("; cut point %d", c.CutPoint))
			if len(c.RareValues) > 0 {
				vals := make([]string, len(c.RareValues))
				for i, v := range c.RareValues {
					vals[i] = safeVal(v)
				}
				b.WriteString(fmt.Sprintf(", rare: %s", strings.Join(vals, ", ")))
			}
		}
		b.WriteString("\n")
	}

	if r.Labels.Column != "" {
		b.WriteString("\n[LABELS]\n")
		b.WriteString(fmt.Sprintf("Column: %s\n", r.Labels.Column))
		b.WriteString(fmt.Sprintf("Inliers: %d\n", r.Labels.Inliers))
		b.WriteString(fmt.Sprintf("Outliers: %d", r.Labels.Outliers))
		if total := r.Labels.Inliers + r.Labels.Outliers; total > 0 {
			b.WriteString(fmt.Sprintf(" (%.1f%%)", float64(r.Labels.Outliers)*100/float64(total)))
		}
		b.WriteString("\n")
		if r.Labels.Other > 0 {
			b.WriteString(fmt.Sprintf("Other: %d\n", r.Labels.Other))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
