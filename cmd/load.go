package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/parser"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/relation"
)

// loadFlags are the dataset loading flags shared by the commands that read
// a dataset. Each command owns its own instance.
type loadFlags struct {
	types          string
	categorical    []string
	allCategorical bool
	label          string
	noLabel        bool
	standardize    bool
	delimiter      string
	decimal        string
	sheetName      string
	sheetIndex     int
	policy         string

	typeMap     relation.TypeMap
	typeMapPath string
}

func (lf *loadFlags) register(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&lf.types, "types", "", "dataset type map file (overrides config types_file)")
	f.StringSliceVar(&lf.categorical, "categorical", nil, "comma-separated categorical column names; others are numeric")
	f.BoolVar(&lf.allCategorical, "all-categorical", false, "treat every data column as categorical")
	f.StringVar(&lf.label, "label", "", "label column name (default: config label_column, then 'outlier', then last column)")
	f.BoolVar(&lf.noLabel, "no-label", false, "dataset has no label column")
	f.BoolVar(&lf.standardize, "standardize-labels", false, "map the majority label to 'no' and the minority to 'yes' (always on for ARFF)")
	f.StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default: config delimiter, else ',')")
	f.StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	f.StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	f.IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	f.StringVar(&lf.policy, "constant-policy", "", "constant column policy: zero|skip|error (overrides config)")
}

// dataset is a loaded relation and where its column types came from.
type dataset struct {
	path      string
	table     *parser.Table
	rel       *relation.Relation
	typesFrom string
}

// load reads path into a relation. With untyped set, a dataset without
// type metadata is loaded with every column categorical instead of failing.
func (lf *loadFlags) load(path string, untyped bool) (*dataset, error) {
	popt, err := lf.parserOptions()
	if err != nil {
		return nil, err
	}
	t, err := parser.ReadFile(path, popt)
	if err != nil {
		return nil, err
	}

	label := lf.label
	if label == "" && cfg != nil {
		label = cfg.LabelColumn
	}
	labelIdx := -1
	if !lf.noLabel && len(t.Header) > 0 {
		labelIdx = relation.LabelIndex(t, label)
		if labelIdx < 0 {
			return nil, fmt.Errorf("label column %q not found in %s", label, path)
		}
	}
	var names []string
	for j, h := range t.Header {
		if j != labelIdx {
			names = append(names, h)
		}
	}

	spec, from, err := lf.resolveSpec(path, t, names, labelIdx)
	if errors.Is(err, relation.ErrMissingTypes) && untyped {
		spec, from, err = relation.Uniform(relation.TypeObject, len(names)), "untyped", nil
	}
	if err != nil {
		return nil, err
	}

	policyName := lf.policy
	if policyName == "" && cfg != nil {
		policyName = cfg.ConstantPolicy
	}
	policy, err := relation.ParseConstantPolicy(policyName)
	if err != nil {
		return nil, err
	}
	dec, err := parseDecimal(lf.decimal)
	if err != nil {
		return nil, err
	}

	rel, err := relation.FromTable(t, spec, relation.LoadOptions{
		Options:           relation.Options{ConstantPolicy: policy, Logger: logger},
		LabelColumn:       label,
		NoLabel:           lf.noLabel,
		StandardizeLabels: lf.standardize || t.Format == "arff",
		DecimalSeparator:  dec,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &dataset{path: path, table: t, rel: rel, typesFrom: from}, nil
}

// resolveSpec picks the column types: explicit flags first, then the type
// map, then types declared by the file itself.
func (lf *loadFlags) resolveSpec(path string, t *parser.Table, names []string, labelIdx int) (relation.ColumnTypeSpec, string, error) {
	if lf.allCategorical {
		return relation.Uniform(relation.TypeCategorical, len(names)), "--all-categorical", nil
	}
	if len(lf.categorical) > 0 {
		spec := relation.Uniform(relation.TypeNumeric, len(names))
		for _, c := range lf.categorical {
			found := false
			for j, n := range names {
				if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(c)) {
					spec[j] = relation.TypeCategorical
					found = true
				}
			}
			if !found {
				return nil, "", fmt.Errorf("--categorical: unknown column %q", c)
			}
		}
		return spec, "--categorical", nil
	}

	m, src, err := lf.loadTypeMap()
	if err != nil {
		return nil, "", err
	}
	if spec, ok := m.Lookup(path, len(names)); ok {
		return spec, src, nil
	}

	if len(t.Types) == len(t.Header) && len(t.Types) > 0 {
		var spec relation.ColumnTypeSpec
		for j, ty := range t.Types {
			if j != labelIdx {
				spec = append(spec, relation.ColumnType(ty))
			}
		}
		return spec, t.Format + " header", nil
	}
	return nil, "", fmt.Errorf("%w for %s (use --types, --categorical or --all-categorical)",
		relation.ErrMissingTypes, relation.DatasetKey(path))
}

func (lf *loadFlags) loadTypeMap() (relation.TypeMap, string, error) {
	path := lf.types
	if path == "" && cfg != nil {
		path = cfg.TypesFile
	}
	if path == "" {
		return nil, "", nil
	}
	if lf.typeMap != nil && lf.typeMapPath == path {
		return lf.typeMap, path, nil
	}
	m, err := relation.LoadTypeMap(path)
	if err != nil {
		return nil, "", err
	}
	lf.typeMap, lf.typeMapPath = m, path
	return m, path, nil
}

func (lf *loadFlags) parserOptions() (parser.Options, error) {
	opt := parser.Options{SheetName: lf.sheetName, SheetIndex: lf.sheetIndex}
	switch lf.delimiter {
	case "":
		if cfg != nil {
			d, err := cfg.DelimiterRune()
			if err != nil {
				return opt, err
			}
			opt.Delimiter = d
		}
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
	}
	return opt, nil
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot", "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
	}
}

// outputDelimiter is the delimiter for written tables: the flag, else the
// configured delimiter, else a comma.
func outputDelimiter(flag string) (rune, error) {
	lf := loadFlags{delimiter: flag}
	opt, err := lf.parserOptions()
	if err != nil {
		return 0, err
	}
	if opt.Delimiter == 0 {
		return ',', nil
	}
	return opt.Delimiter, nil
}
