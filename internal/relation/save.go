package relation

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// SaveOptions controls how a Relation is written back out.
type SaveOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// RestoreCategories writes the original display value of categorical
	// columns instead of their transformed value.
	RestoreCategories bool
}

// Save writes the relation as a delimited table. Categorical columns carry
// their current (transformed) value, numeric columns their original value,
// and the label is appended last as yes/no.
func (r *Relation) Save(w io.Writer, opt SaveOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	header := make([]string, 0, r.numCols+1)
	for j := 0; j < r.numCols; j++ {
		header = append(header, r.columnName(j))
	}
	if r.HasLabel {
		header = append(header, r.LabelName)
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}
	row := make([]string, len(header))
	for i, in := range r.instances {
		for j := 0; j < r.numCols; j++ {
			row[j] = r.cell(in, j, opt)
		}
		if r.HasLabel {
			row[r.numCols] = in.Label.String()
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write row %d", i+1)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush")
}

func (r *Relation) cell(in *Instance, j int, opt SaveOptions) string {
	if !r.categorical[j] {
		return formatFloat(in.OriginalAt(j))
	}
	if !opt.RestoreCategories {
		return formatFloat(in.At(j))
	}
	if d := r.dicts[j]; d != nil {
		if s, ok := d.Label(in.OriginalAt(j)); ok {
			return s
		}
	}
	return formatFloat(in.OriginalAt(j))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
