package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

type arffParser struct{}

func (arffParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".arff")
}

// Parse reads dense ARFF. Nominal attributes ({a,b,...}) and string/date
// attributes are reported as categorical types, numeric ones as "num".
func (arffParser) Parse(r io.Reader, _ Options) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 16<<20)
	t := &Table{Format: "arff"}
	inData := false
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "%") {
			continue
		}
		if !inData {
			lower := strings.ToLower(s)
			switch {
			case strings.HasPrefix(lower, "@relation"):
				t.Name = unquote(strings.TrimSpace(s[len("@relation"):]))
			case strings.HasPrefix(lower, "@attribute"):
				name, typ, err := parseAttribute(strings.TrimSpace(s[len("@attribute"):]))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", line)
				}
				t.Header = append(t.Header, name)
				t.Types = append(t.Types, typ)
			case strings.HasPrefix(lower, "@data"):
				inData = true
			default:
				return nil, errors.Errorf("line %d: unexpected header line %q", line, s)
			}
			continue
		}
		if strings.HasPrefix(s, "{") {
			return nil, errors.Errorf("line %d: sparse ARFF rows are not supported", line)
		}
		rec := splitARFF(s)
		if len(rec) != len(t.Header) {
			return nil, errors.Errorf("line %d has %d values, %d attributes declared", line, len(rec), len(t.Header))
		}
		t.Records = append(t.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scan arff")
	}
	if !inData {
		return nil, errors.New("missing @data section")
	}
	return t, nil
}

func parseAttribute(s string) (name, typ string, err error) {
	if s == "" {
		return "", "", errors.New("empty @attribute")
	}
	var rest string
	if q := s[0]; q == '\'' || q == '"' {
		end := strings.IndexByte(s[1:], q)
		if end < 0 {
			return "", "", errors.Errorf("unterminated attribute name %q", s)
		}
		name, rest = s[1:end+1], s[end+2:]
	} else {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			return "", "", errors.Errorf("attribute %q has no type", s)
		}
		name, rest = s[:i], s[i:]
	}
	rest = strings.TrimSpace(rest)
	switch {
	case strings.HasPrefix(rest, "{"):
		typ = "cat"
	case strings.EqualFold(rest, "numeric"), strings.EqualFold(rest, "real"), strings.EqualFold(rest, "integer"):
		typ = "num"
	default:
		typ = "object"
	}
	return name, typ, nil
}

// splitARFF splits a data row on commas, honoring single and double quotes.
func splitARFF(s string) []string {
	var out []string
	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			} else {
				b.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			out = append(out, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(out, strings.TrimSpace(b.String()))
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
