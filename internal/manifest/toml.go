package manifest

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/jakoblorz/project-version/internal/models"
)

// decodeTOML validates a TOML document and returns its generic form.
func decodeTOML(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrManifestParse, path, err)
	}
	return doc, nil
}

// lookup walks a dotted key path through a decoded document.
func lookup(doc map[string]any, path ...string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = table[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func lookupString(doc map[string]any, path ...string) (string, bool) {
	v, ok := lookup(doc, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// inheritsWorkspaceVersion reports whether table.version is
// `{ workspace = true }`, written either inline or as a dotted key.
func inheritsWorkspaceVersion(doc map[string]any, table ...string) bool {
	v, ok := lookup(doc, append(table, "version", "workspace")...)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// locateTOMLString finds the single-line string value stored under path and
// returns the byte span of its contents. Only keys written at statement
// level are found: `[a.b]` followed by `c = "x"`, or `a.b.c = "x"`.
//
// The document must already be valid TOML.
func locateTOMLString(data []byte, path ...string) (start, end int, ok bool) {
	var table []string
	n := len(data)
	i := 0
	for i < n {
		switch c := data[i]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '#':
			i = skipLine(data, i)
		case c == '[':
			if i+1 < n && data[i+1] == '[' {
				key, _ := parseTOMLKey(data, i+2)
				// array of tables never match a plain path
				table = append([]string{"[["}, key...)
			} else {
				table, _ = parseTOMLKey(data, i+1)
			}
			i = skipLine(data, i)
		default:
			key, j := parseTOMLKey(data, i)
			if len(key) == 0 || j >= n || data[j] != '=' {
				i = skipLine(data, i)
				continue
			}
			j = skipBlanks(data, j+1)
			full := append(append([]string{}, table...), key...)

			if j < n && (data[j] == '"' || data[j] == '\'') && !isTripleQuote(data, j) {
				k := closingQuote(data, j)
				if k < 0 {
					return 0, 0, false
				}
				if equalPath(full, path) {
					return j + 1, k, true
				}
				i = skipLine(data, k+1)
				continue
			}
			i = skipLine(data, skipTOMLValue(data, j))
		}
	}
	return 0, 0, false
}

func parseTOMLKey(data []byte, i int) ([]string, int) {
	var key []string
	n := len(data)
	for {
		i = skipBlanks(data, i)
		if i >= n {
			return key, i
		}
		switch data[i] {
		case '"', '\'':
			k := closingQuote(data, i)
			if k < 0 {
				return key, n
			}
			key = append(key, string(data[i+1:k]))
			i = k + 1
		default:
			j := i
			for j < n && isBareKeyChar(data[j]) {
				j++
			}
			if j == i {
				return key, i
			}
			key = append(key, string(data[i:j]))
			i = j
		}
		i = skipBlanks(data, i)
		if i < n && data[i] == '.' {
			i++
			continue
		}
		return key, i
	}
}

// skipTOMLValue returns the index just past the value starting at i.
// Scalars end at the line break, which the caller consumes.
func skipTOMLValue(data []byte, i int) int {
	n := len(data)
	if i >= n {
		return n
	}
	if isTripleQuote(data, i) {
		delim := data[i : i+3]
		if k := bytes.Index(data[i+3:], delim); k >= 0 {
			return i + 3 + k + 3
		}
		return n
	}
	switch data[i] {
	case '"', '\'':
		if k := closingQuote(data, i); k >= 0 {
			return k + 1
		}
		return n
	case '[', '{':
		depth := 0
		for i < n {
			switch c := data[i]; {
			case c == '[' || c == '{':
				depth++
				i++
			case c == ']' || c == '}':
				depth--
				i++
				if depth == 0 {
					return i
				}
			case c == '#':
				i = skipLine(data, i)
			case c == '"' || c == '\'':
				i = skipTOMLValue(data, i)
			default:
				i++
			}
		}
		return n
	}
	return i
}

// closingQuote returns the index of the quote closing the single-line string
// opening at i, or -1.
func closingQuote(data []byte, i int) int {
	q := data[i]
	for k := i + 1; k < len(data); k++ {
		switch data[k] {
		case '\\':
			if q == '"' {
				k++
			}
		case '\n':
			return -1
		case q:
			return k
		}
	}
	return -1
}

func isTripleQuote(data []byte, i int) bool {
	return i+2 < len(data) &&
		(data[i] == '"' || data[i] == '\'') &&
		data[i+1] == data[i] && data[i+2] == data[i]
}

func isBareKeyChar(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipBlanks(data []byte, i int) int {
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	return i
}

func skipLine(data []byte, i int) int {
	if k := bytes.IndexByte(data[min(i, len(data)):], '\n'); k >= 0 {
		return i + k + 1
	}
	return len(data)
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tomlVersionField describes one TOML location that can carry a version.
type tomlVersionField struct {
	table []string
}

func (f tomlVersionField) path() []string {
	return append(append([]string{}, f.table...), "version")
}

func (f tomlVersionField) String() string {
	out := "["
	for i, t := range f.table {
		if i > 0 {
			out += "."
		}
		out += t
	}
	return out + "].version"
}

// tomlVersionSpans locates the string version under each field that holds
// one. Fields whose decoded value is not a string are skipped.
func tomlVersionSpans(path string, data []byte, doc map[string]any, fields []tomlVersionField) ([]span, error) {
	var spans []span
	for _, f := range fields {
		want, ok := lookupString(doc, f.path()...)
		if !ok {
			continue
		}
		start, end, found := locateTOMLString(data, f.path()...)
		if !found || string(data[start:end]) != want {
			return nil, fmt.Errorf("%w: %s: cannot locate %s in source", models.ErrManifestParse, path, f)
		}
		spans = append(spans, span{start: start, end: end, field: f.String()})
	}
	return spans, nil
}
