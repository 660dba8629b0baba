package evaluate

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// ErrSingleClass is returned by AUC when the labels hold only inliers or
// only outliers.
var ErrSingleClass = errors.New("labels contain a single class")

// AUC returns the area under the ROC curve of scores against labels.
// higherIsOutlier states the direction of the score; rows with labels other
// than Inlier and Outlier are ignored.
func AUC(scores []float64, labels []relation.Label, higherIsOutlier bool) (float64, error) {
	if len(scores) != len(labels) {
		return 0, errors.Errorf("%d scores for %d labels", len(scores), len(labels))
	}
	var (
		y        []float64
		classes  []bool
		pos, neg int
	)
	for i, l := range labels {
		if l != relation.Inlier && l != relation.Outlier {
			continue
		}
		s := scores[i]
		if !higherIsOutlier {
			s = -s
		}
		y = append(y, s)
		classes = append(classes, l == relation.Outlier)
		if l == relation.Outlier {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, errors.WithStack(ErrSingleClass)
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
