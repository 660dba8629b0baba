package parser

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Table is a parsed dataset: a header row and string records of equal width.
type Table struct {
	Name    string
	Format  string
	Header  []string
	Records [][]string
	// Types holds column types declared by the file itself (ARFF), else nil.
	Types []string
}

// NumRows returns the number of data records.
func (t *Table) NumRows() int { return len(t.Records) }

// Column returns the index of the named column, case-insensitive, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Options controls parsing.
type Options struct {
	// Delimiter for CSV. If 0, tab for .tsv files, else a comma.
	Delimiter rune
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// Parser reads one tabular file format.
type Parser interface {
	CanParse(filename string) bool
	Parse(r io.Reader, opt Options) (*Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")

// For returns the parser registered for filename.
func For(filename string) (Parser, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupported, "%s", filepath.Base(filename))
}

// ReadFile selects a parser based on filename and parses the file.
func ReadFile(path string, opt Options) (*Table, error) {
	p, err := For(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = delimiterFor(path)
	}
	t, err := p.Parse(f, opt)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filepath.Base(path))
	}
	if t.Name == "" {
		base := filepath.Base(path)
		t.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return t, nil
}

// Supported reports whether any registered parser accepts filename.
func Supported(filename string) bool {
	_, err := For(filename)
	return err == nil
}

func init() {
	Register(csvParser{})
	Register(arffParser{})
	Register(xlsxParser{})
}
