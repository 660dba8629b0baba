package relation

import "strconv"

// Label is the ground-truth class of a row.
type Label int

const (
	Unknown Label = -1
	Inlier  Label = 0
	Outlier Label = 1
)

// String renders the label in the display vocabulary used by result files.
func (l Label) String() string {
	switch l {
	case Inlier:
		return "no"
	case Outlier:
		return "yes"
	default:
		return strconv.Itoa(int(l))
	}
}

// Instance is one data row. Values is rewritten in place by normalization and
// the pivot transform; the snapshot taken at construction is kept so original
// values can be written back out.
type Instance struct {
	Index  int
	Values []float64
	Label  Label

	original []float64
}

// NewInstance copies values into a new row and snapshots them.
func NewInstance(index int, values []float64, label Label) *Instance {
	v := make([]float64, len(values))
	copy(v, values)
	o := make([]float64, len(values))
	copy(o, values)
	return &Instance{Index: index, Values: v, Label: label, original: o}
}

// At returns the current value of column j.
func (in *Instance) At(j int) float64 { return in.Values[j] }

// SetAt overwrites the current value of column j.
func (in *Instance) SetAt(j int, v float64) { in.Values[j] = v }

// Original returns a copy of the values as they were at construction.
func (in *Instance) Original() []float64 {
	out := make([]float64, len(in.original))
	copy(out, in.original)
	return out
}

// OriginalAt returns the construction-time value of column j.
func (in *Instance) OriginalAt(j int) float64 { return in.original[j] }

// Clone returns a detached copy of the row with its current values as both
// the working and the original snapshot. Pivots are built this way so that
// later writes to the source row cannot move them.
func (in *Instance) Clone() *Instance {
	return NewInstance(in.Index, in.Values, in.Label)
}
