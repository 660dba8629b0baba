package relation

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Options controls Relation behavior that is not part of the data itself.
type Options struct {
	// ConstantPolicy decides what happens to zero-width columns when they
	// are rescaled. Defaults to PolicyZero.
	ConstantPolicy ConstantPolicy
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// CategoryCount is the number of rows holding one value of a categorical column.
type CategoryCount struct {
	Value float64
	Count int
}

// Relation is one dataset. It exclusively owns its instances; Normalize
// rewrites them in place exactly once.
type Relation struct {
	Name      string
	Header    []string
	LabelName string
	HasLabel  bool

	numRows     int
	numCols     int
	instances   []*Instance
	categorical []bool
	// per categorical column: value -> count, plus first-appearance order
	frequencies []map[float64]int
	order       [][]float64
	dicts       []*Dictionary
	normalized  bool

	opt Options
}

// New builds a Relation from rows and explicit column type metadata.
// The header is optional; when given it must match the spec length.
func New(name string, header []string, rows []*Instance, spec ColumnTypeSpec, opt Options) (*Relation, error) {
	ncol := len(spec)
	if ncol == 0 {
		return nil, errors.Wrapf(ErrMissingTypes, "dataset %s", name)
	}
	if header != nil && len(header) != ncol {
		return nil, errors.Wrapf(ErrShape, "header has %d columns, types describe %d", len(header), ncol)
	}
	for i, in := range rows {
		if len(in.Values) != ncol {
			return nil, errors.Wrapf(ErrShape, "row %d has %d values, types describe %d", i, len(in.Values), ncol)
		}
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	if opt.ConstantPolicy == "" {
		opt.ConstantPolicy = PolicyZero
	}
	r := &Relation{
		Name:        name,
		Header:      header,
		numRows:     len(rows),
		numCols:     ncol,
		instances:   rows,
		categorical: spec.Categorical(),
		dicts:       make([]*Dictionary, ncol),
		opt:         opt,
	}
	r.countFrequencies()
	return r, nil
}

func (r *Relation) countFrequencies() {
	r.frequencies = make([]map[float64]int, r.numCols)
	r.order = make([][]float64, r.numCols)
	for j := 0; j < r.numCols; j++ {
		if !r.categorical[j] {
			continue
		}
		m := make(map[float64]int)
		for _, in := range r.instances {
			v := in.At(j)
			if _, ok := m[v]; !ok {
				r.order[j] = append(r.order[j], v)
			}
			m[v]++
		}
		r.frequencies[j] = m
	}
}

func (r *Relation) NumRows() int { return r.numRows }
func (r *Relation) NumCols() int { return r.numCols }

// Instances returns the rows. Callers must not retain them across Normalize.
func (r *Relation) Instances() []*Instance { return r.instances }

// Instance returns row i.
func (r *Relation) Instance(i int) *Instance { return r.instances[i] }

// At returns the current value at row i, column j.
func (r *Relation) At(i, j int) float64 { return r.instances[i].At(j) }

func (r *Relation) IsCategorical(j int) bool { return r.categorical[j] }

// Categorical returns a copy of the per-column categorical flags.
func (r *Relation) Categorical() []bool {
	out := make([]bool, len(r.categorical))
	copy(out, r.categorical)
	return out
}

// CategoricalColumns returns the indexes of categorical columns in column order.
func (r *Relation) CategoricalColumns() []int {
	var out []int
	for j, c := range r.categorical {
		if c {
			out = append(out, j)
		}
	}
	return out
}

func (r *Relation) IsNormalized() bool { return r.normalized }

// Logger returns the logger the Relation was built with.
func (r *Relation) Logger() *zap.Logger { return r.opt.Logger }

// DistinctCount returns the number of distinct values in categorical column j,
// and 0 for numeric columns.
func (r *Relation) DistinctCount(j int) int {
	if r.frequencies[j] == nil {
		return 0
	}
	return len(r.frequencies[j])
}

// DistinctCounts returns DistinctCount for every column.
func (r *Relation) DistinctCounts() []int {
	out := make([]int, r.numCols)
	for j := range out {
		out[j] = r.DistinctCount(j)
	}
	return out
}

// CategoryCounts returns the value frequencies of categorical column j in
// first-appearance order, or nil for a numeric column.
func (r *Relation) CategoryCounts(j int) []CategoryCount {
	m := r.frequencies[j]
	if m == nil {
		return nil
	}
	out := make([]CategoryCount, 0, len(m))
	for _, v := range r.order[j] {
		out = append(out, CategoryCount{Value: v, Count: m[v]})
	}
	return out
}

// Dictionary returns the code dictionary for column j, if its categories
// were text.
func (r *Relation) Dictionary(j int) *Dictionary { return r.dicts[j] }

// Labels returns the ground-truth label of every row.
func (r *Relation) Labels() []Label {
	out := make([]Label, r.numRows)
	for i, in := range r.instances {
		out[i] = in.Label
	}
	return out
}

// Features copies the current values into a rows x cols matrix.
func (r *Relation) Features() *mat.Dense {
	if r.numRows == 0 || r.numCols == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, 0, r.numRows*r.numCols)
	for _, in := range r.instances {
		data = append(data, in.Values...)
	}
	return mat.NewDense(r.numRows, r.numCols, data)
}

// Column copies the current values of column j.
func (r *Relation) Column(j int) []float64 {
	out := make([]float64, r.numRows)
	for i, in := range r.instances {
		out[i] = in.At(j)
	}
	return out
}
