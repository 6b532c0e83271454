package textparse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// tabWidth is the column width tabs are expanded to. The expansion happens
// once, in the ingestor, and every downstream column index refers to the
// expanded text.
const tabWidth = 8

// Line is one physical line of the input file. Raw keeps the original text
// with tabs intact (the tab delimiter hypothesis and the standard parser
// split on it); Text is the tab-expanded form all column math runs on.
type Line struct {
	Index     int
	Raw       string
	Text      string
	Stripped  string
	LeadingWS int
}

func (l Line) isBlank() bool { return l.Stripped == "" }

// decodeBytes decodes file bytes as UTF-8, falling back to latin-1. It only
// fails if both decoders reject the input, which latin-1 in practice never
// does.
func decodeBytes(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			for i := 0; i < n; i++ {
				b.WriteByte(' ')
			}
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func countLeadingWS(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

// ingest splits decoded text into Lines, stripping trailing \r and
// expanding tabs. The Line slice owns all string storage for the rest of
// the parse.
func ingest(data []byte, path string) ([]Line, error) {
	text, err := decodeBytes(data)
	if err != nil {
		e := newError(KindEncodingError, path, "input decodes under neither UTF-8 nor latin-1")
		e.Err = err
		return nil, e
	}

	raws := strings.Split(text, "\n")
	if n := len(raws); n > 0 && raws[n-1] == "" {
		raws = raws[:n-1]
	}

	lines := make([]Line, len(raws))
	for i, raw := range raws {
		raw = strings.TrimSuffix(raw, "\r")
		expanded := expandTabs(raw)
		lines[i] = Line{
			Index:     i,
			Raw:       raw,
			Text:      expanded,
			Stripped:  strings.TrimSpace(expanded),
			LeadingWS: countLeadingWS(expanded),
		}
	}
	return lines, nil
}
