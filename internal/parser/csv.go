package parser

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvParser) Parse(r io.Reader, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{Format: "csv"}, nil
		}
		return nil, errors.Wrap(err, "read header")
	}
	t := &Table{Format: "csv", Header: trimAll(header)}
	ncol := len(header)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrapf(err, "read row %d", line)
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) > ncol {
			return nil, errors.Errorf("row %d has %d fields, header has %d", line, len(rec), ncol)
		}
		if len(rec) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		t.Records = append(t.Records, trimAll(rec))
	}
	return t, nil
}

// delimiterFor returns tab for .tsv files and 0 (comma) otherwise.
func delimiterFor(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return 0
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
