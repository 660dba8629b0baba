package evaluate

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/parser"
)

// Scorer maps a feature matrix to one anomaly score per row.
type Scorer interface {
	Score(X mat.Matrix) ([]float64, error)
}

// FileScorer returns scores computed elsewhere and stored in a file.
type FileScorer struct {
	Path string
}

// Score reads the score file and checks it covers every row of X.
func (s FileScorer) Score(X mat.Matrix) ([]float64, error) {
	scores, err := ReadScores(s.Path)
	if err != nil {
		return nil, err
	}
	if X != nil {
		if rows, _ := X.Dims(); rows != len(scores) {
			return nil, errors.Errorf("%s holds %d scores for %d rows", s.Path, len(scores), rows)
		}
	}
	return scores, nil
}

// ReadScores loads scores from a table with a "score" column, or from a
// plain file with one score per line.
func ReadScores(path string) ([]float64, error) {
	if parser.Supported(path) {
		t, err := parser.ReadFile(path, parser.Options{})
		if err == nil {
			if j := t.Column("score"); j >= 0 {
				out := make([]float64, 0, t.NumRows())
				for i, rec := range t.Records {
					v, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
					if err != nil {
						return nil, errors.Wrapf(err, "score row %d", i+1)
					}
					out = append(out, v)
				}
				return out, nil
			}
		}
	}
	return readScoreLines(path)
}

func readScoreLines(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scores")
	}
	defer f.Close()

	var out []float64
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "scores line %d", line)
		}
		out = append(out, v)
	}
	return out, errors.Wrap(sc.Err(), "read scores")
}
