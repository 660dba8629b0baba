// Package pivot turns categorical columns into continuous distance features
// measured against a small set of reference rows.
package pivot

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// Path names the branch a transform took.
type Path string

const (
	PathNone   Path = "none"
	PathSingle Path = "single"
	PathMulti  Path = "multi"
)

// Result describes the last transform.
type Result struct {
	Path Path `json:"path"`
	// CutPoint is the number of synthetic pivots on the single-column path.
	CutPoint int `json:"cut_point,omitempty"`
	// PivotValues are the category codes used as synthetic pivots.
	PivotValues []float64 `json:"pivot_values,omitempty"`
	// PivotRows are the row indexes chosen on the multi-column path.
	PivotRows []int `json:"pivot_rows,omitempty"`
}

// Transformer implements relation.CategoricalTransformer.
type Transformer struct {
	rng    *rand.Rand
	logger *zap.Logger
	last   Result
}

// NewTransformer returns a transformer whose pivot seeding is reproducible
// for a given seed.
func NewTransformer(seed uint64, logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Result returns what the most recent TransformCategorical call did.
func (t *Transformer) Result() Result { return t.last }

// TransformCategorical rewrites every categorical column of rel with
// distances to pivots, then rescales those columns to [0,1].
func (t *Transformer) TransformCategorical(rel *relation.Relation) error {
	cols := rel.CategoricalColumns()
	distinct := rel.DistinctCounts()
	log := t.logger.With(zap.String("dataset", rel.Name))

	var err error
	switch len(cols) {
	case 0:
		t.last = Result{Path: PathNone}
		log.Debug("no categorical columns")
		return nil
	case 1:
		err = t.single(rel, cols[0], distinct, log)
	default:
		err = t.multi(rel, cols, distinct, log)
	}
	if err != nil {
		return err
	}
	return rel.RescaleColumns(true)
}

func (t *Transformer) single(rel *relation.Relation, j int, distinct []int, log *zap.Logger) error {
	cats := SortedCategories(rel.CategoryCounts(j))
	cut := CutPoint(Frequencies(cats))
	if cut == 0 {
		cut = distinct[j]
	}

	cat := rel.Categorical()
	pivots := make([]*relation.Instance, cut)
	values := make([]float64, cut)
	for k := 0; k < cut; k++ {
		v := make([]float64, rel.NumCols())
		v[j] = cats[k].Value
		pivots[k] = relation.NewInstance(k, v, relation.Inlier)
		values[k] = cats[k].Value
	}
	log.Debug("single categorical column",
		zap.Int("column", j),
		zap.Int("distinct", distinct[j]),
		zap.Int("cut_point", cut),
		zap.Float64s("pivots", values))

	for _, in := range rel.Instances() {
		var sum float64
		for _, p := range pivots {
			d, err := relation.Distance(in, p, cat, distinct)
			if err != nil {
				return errors.Wrapf(err, "row %d", in.Index)
			}
			sum += d
		}
		in.SetAt(j, sum)
	}
	t.last = Result{Path: PathSingle, CutPoint: cut, PivotValues: values}
	return nil
}

func (t *Transformer) multi(rel *relation.Relation, cols []int, distinct []int, log *zap.Logger) error {
	if rel.NumRows() < len(cols) {
		log.Warn("fewer rows than categorical columns, pivots will repeat",
			zap.Int("rows", rel.NumRows()),
			zap.Int("categorical", len(cols)))
	}
	ids, err := SelectPivots(rel, len(cols), distinct, t.rng)
	if err != nil {
		return err
	}
	log.Debug("multi categorical columns",
		zap.Int("categorical", len(cols)),
		zap.Ints("pivot_rows", ids))

	// snapshot pivots before any row is rewritten
	pivots := make([]*relation.Instance, len(ids))
	for k, id := range ids {
		pivots[k] = rel.Instance(id).Clone()
	}

	cat := rel.Categorical()
	dists := make([]float64, len(pivots))
	for _, in := range rel.Instances() {
		for k, p := range pivots {
			d, err := relation.Distance(in, p, cat, distinct)
			if err != nil {
				return errors.Wrapf(err, "row %d", in.Index)
			}
			dists[k] = d
		}
		for k, j := range cols {
			in.SetAt(j, dists[k])
		}
	}
	t.last = Result{Path: PathMulti, PivotRows: ids}
	return nil
}
