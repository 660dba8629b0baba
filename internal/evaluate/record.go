package evaluate

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// RecordHeader is the column order of result files.
var RecordHeader = []string{"dataset", "algorithm", "parameter", "point", "type", "detect", "score", "ranking"}

// Record is one scored row of one detector run.
type Record struct {
	Dataset   string
	Algorithm string
	Parameter string
	// Point is the 1-based row number.
	Point int
	// Type is "I" for inliers and "O" for everything else.
	Type    string
	Detect  bool
	Score   float64
	Ranking int
}

// Run identifies one detector run over one dataset.
type Run struct {
	Dataset   string
	Algorithm string
	Parameter string
	// HigherIsOutlier is false for detectors whose low scores flag outliers.
	HigherIsOutlier bool
}

// BuildRecords ranks scores, predicts as many outliers as the labels hold
// and marks each row's detection as correct or not.
func BuildRecords(run Run, labels []relation.Label, scores []float64) ([]Record, error) {
	if len(labels) != len(scores) {
		return nil, errors.Errorf("%d scores for %d rows", len(scores), len(labels))
	}
	predicted := TopN(scores, CountOutliers(labels), run.HigherIsOutlier)
	ranks := Ranking(scores, !run.HigherIsOutlier)
	detect := Detect(labels, predicted)

	recs := make([]Record, len(scores))
	for i := range scores {
		typ := "O"
		if labels[i] == relation.Inlier {
			typ = "I"
		}
		recs[i] = Record{
			Dataset:   run.Dataset,
			Algorithm: run.Algorithm,
			Parameter: run.Parameter,
			Point:     i + 1,
			Type:      typ,
			Detect:    detect[i],
			Score:     scores[i],
			Ranking:   ranks[i],
		}
	}
	return recs, nil
}

// WriteRecords writes a semicolon separated result table with a header.
func WriteRecords(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(RecordHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, r := range recs {
		row := []string{
			r.Dataset,
			r.Algorithm,
			r.Parameter,
			strconv.Itoa(r.Point),
			r.Type,
			formatBool(r.Detect),
			strconv.FormatFloat(r.Score, 'g', -1, 64),
			strconv.Itoa(r.Ranking),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write point %d", r.Point)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush")
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ResultPath is where the results of algorithm on dataset are stored.
func ResultPath(dir, algorithm, dataset string) string {
	return filepath.Join(dir, algorithm, filepath.Base(dataset))
}

// Exists reports whether a result file is already present.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
