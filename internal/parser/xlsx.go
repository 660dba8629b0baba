package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads one worksheet: the first row is the header.
func (xlsxParser) Parse(r io.Reader, opt Options) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read xlsx")
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	var wb workbook
	if err := unmarshalZip(zr, "xl/workbook.xml", &wb); err != nil {
		return nil, err
	}
	var rels relationships
	if err := unmarshalZip(zr, "xl/_rels/workbook.xml.rels", &rels); err != nil {
		return nil, err
	}
	var sst sharedStrings
	if err := unmarshalZip(zr, "xl/sharedStrings.xml", &sst); err != nil {
		return nil, err
	}
	target, err := resolveSheet(wb, rels, opt)
	if err != nil {
		return nil, err
	}
	if !zipHas(zr, target) {
		return nil, errors.Errorf("worksheet %s not found", target)
	}
	var ws worksheet
	if err := unmarshalZip(zr, target, &ws); err != nil {
		return nil, err
	}
	shared := sst.strings()

	t := &Table{Format: "xlsx"}
	for _, row := range ws.Rows {
		rec := row.values(shared)
		if t.Header == nil {
			t.Header = trimAll(rec)
			continue
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) < len(t.Header) {
			tmp := make([]string, len(t.Header))
			copy(tmp, rec)
			rec = tmp
		}
		t.Records = append(t.Records, trimAll(rec[:len(t.Header)]))
	}
	return t, nil
}

type workbook struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

type relationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type sharedStrings struct {
	Items []struct {
		T string `xml:"t"`
		R []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

func (s sharedStrings) strings() []string {
	out := make([]string, len(s.Items))
	for i, si := range s.Items {
		if len(si.R) == 0 {
			out[i] = si.T
			continue
		}
		var b strings.Builder
		for _, r := range si.R {
			b.WriteString(r.T)
		}
		out[i] = b.String()
	}
	return out
}

type worksheet struct {
	Rows []sheetRow `xml:"sheetData>row"`
}

type sheetRow struct {
	Cells []struct {
		Ref    string `xml:"r,attr"`
		Type   string `xml:"t,attr"`
		V      string `xml:"v"`
		Inline string `xml:"is>t"`
	} `xml:"c"`
}

func (row sheetRow) values(shared []string) []string {
	var out []string
	for k, c := range row.Cells {
		idx := k
		if c.Ref != "" {
			idx = colIndexFromRef(c.Ref)
		}
		if idx < 0 {
			continue
		}
		for len(out) <= idx {
			out = append(out, "")
		}
		switch c.Type {
		case "s":
			if n, err := strconv.Atoi(c.V); err == nil && n >= 0 && n < len(shared) {
				out[idx] = shared[n]
			}
		case "inlineStr":
			out[idx] = c.Inline
		default:
			out[idx] = c.V
		}
	}
	return out
}

func resolveSheet(wb workbook, rels relationships, opt Options) (string, error) {
	targets := map[string]string{}
	for _, r := range rels.Rels {
		targets[r.ID] = r.Target
	}
	if opt.SheetName != "" {
		var names []string
		for _, s := range wb.Sheets {
			if strings.EqualFold(s.Name, opt.SheetName) {
				if t, ok := targets[s.RID]; ok {
					return normalizeRelPath(t), nil
				}
			}
			names = append(names, s.Name)
		}
		return "", errors.Errorf("sheet %q not found (available: %s)", opt.SheetName, strings.Join(names, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	for _, s := range wb.Sheets {
		if s.SheetID == idx {
			if t, ok := targets[s.RID]; ok {
				return normalizeRelPath(t), nil
			}
		}
	}
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", idx), nil
}

func zipHas(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// unmarshalZip decodes the named entry into v; a missing entry leaves v empty.
func unmarshalZip(zr *zip.Reader, name string, v any) error {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, "open %s", name)
		}
		defer rc.Close()
		if err := xml.NewDecoder(rc).Decode(v); err != nil {
			return errors.Wrapf(err, "decode %s", name)
		}
		return nil
	}
	return nil
}

// colIndexFromRef converts a cell reference like "C12" to a 0-based column.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

// normalizeRelPath converts a relationship target to a zip entry name.
// Targets may be absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
