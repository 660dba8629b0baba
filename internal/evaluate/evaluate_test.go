package evaluate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

const (
	in  = relation.Inlier
	out = relation.Outlier
)

func TestRanking(t *testing.T) {
	values := []float64{0.5, 0.9, 0.1, 0.9}
	assert.Equal(t, []int{3, 1, 4, 2}, Ranking(values, false))
	assert.Equal(t, []int{2, 3, 1, 4}, Ranking(values, true))
}

func TestTopN(t *testing.T) {
	values := []float64{0.5, 0.9, 0.1, 0.9}
	assert.Equal(t, []int{1, 3}, TopN(values, 2, true))
	assert.Equal(t, []int{2}, TopN(values, 1, false))
	assert.Len(t, TopN(values, 10, true), 4)
	assert.Empty(t, TopN(values, -1, true))
}

func TestDetect(t *testing.T) {
	got := Detect([]relation.Label{out, in, in, out}, []int{0, 1})
	assert.Equal(t, []bool{true, false, true, false}, got)
}

func TestAUC(t *testing.T) {
	scores := []float64{0.1, 0.4, 0.35, 0.8}
	labels := []relation.Label{in, in, out, out}

	auc, err := AUC(scores, labels, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-9)

	auc, err = AUC(scores, labels, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, auc, 1e-9)

	_, err = AUC(scores, []relation.Label{in, in, in, relation.Unknown}, true)
	assert.ErrorIs(t, err, ErrSingleClass)

	_, err = AUC(scores[:2], labels, true)
	assert.Error(t, err)
}

func TestBuildAndWriteRecords(t *testing.T) {
	run := Run{Dataset: "car.csv", Algorithm: "KNN", Parameter: "k:5", HigherIsOutlier: true}
	recs, err := BuildRecords(run, []relation.Label{in, out, in}, []float64{0.2, 0.9, 0.4})
	require.NoError(t, err)

	want := Record{Dataset: "car.csv", Algorithm: "KNN", Parameter: "k:5", Point: 2, Type: "O", Detect: true, Score: 0.9, Ranking: 1}
	if diff := cmp.Diff(want, recs[1]); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, recs))
	expected := "dataset;algorithm;parameter;point;type;detect;score;ranking\n" +
		"car.csv;KNN;k:5;1;I;True;0.2;3\n" +
		"car.csv;KNN;k:5;2;O;True;0.9;1\n" +
		"car.csv;KNN;k:5;3;I;True;0.4;2\n"
	assert.Equal(t, expected, buf.String())

	_, err = BuildRecords(run, []relation.Label{in}, []float64{1, 2})
	assert.Error(t, err)
}

func TestBuildRecordsLowScoresFlagOutliers(t *testing.T) {
	run := Run{Dataset: "d", Algorithm: "AVF", Parameter: "bins:10"}
	recs, err := BuildRecords(run, []relation.Label{in, out, in}, []float64{5, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, recs[1].Ranking)
	assert.True(t, recs[1].Detect)
	assert.Equal(t, 3, recs[0].Ranking)
}

func TestResultPathAndExists(t *testing.T) {
	dir := t.TempDir()
	p := ResultPath(dir, "KNN", "/data/finance/car.csv")
	assert.Equal(t, filepath.Join(dir, "KNN", "car.csv"), p)
	assert.False(t, Exists(p))

	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	assert.True(t, Exists(p))
	assert.False(t, Exists(dir))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadScores(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []float64
	}{
		{"plain lines", "scores.txt", "0.5\n\n# note\n1.5\n", []float64{0.5, 1.5}},
		{"score column", "scores.csv", "id,score\n1,0.3\n2,0.7\n", []float64{0.3, 0.7}},
		{"headerless csv", "scores.csv", "0.1\n0.2\n", []float64{0.1, 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadScores(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileScorerChecksRowCount(t *testing.T) {
	p := writeFile(t, "s.txt", "1\n2\n")
	s := FileScorer{Path: p}

	got, err := s.Score(mat.NewDense(2, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)

	_, err = s.Score(mat.NewDense(3, 1, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 scores for 3 rows")

	_, err = FileScorer{Path: writeFile(t, "bad.txt", "x\n")}.Score(nil)
	assert.Error(t, err)
}
