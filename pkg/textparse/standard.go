package textparse

import (
	"fmt"
	"log/slog"
	"strings"
)

// VariableRecord is one "## …" line from the template's Variables section,
// split on tab with field order preserved. Name is the first field and
// seeds the column list.
type VariableRecord struct {
	Name   string
	Fields []string
}

// Metadata holds the standard template's commented header: key/value pairs
// grouped by section, plus the ordered variable records.
type Metadata struct {
	Sections  map[string]map[string]string
	Variables []VariableRecord
}

// variablesSection is the section name under which "##" lines are read as
// variable records.
const variablesSection = "variables"

// parseStandard reads a template-conforming file: commented lines become
// metadata, the trailing uncommented block becomes the single data table.
// The standard path is strict; a template without a data region fails the
// whole file.
func parseStandard(lines []Line, path string) (*Table, *Metadata, error) {
	meta, attrs := parseTemplateMetadata(lines)

	data := trailingDataRegion(lines)
	if len(data) == 0 {
		return nil, nil, newError(KindEmptyData, path, "template header present but no data region")
	}

	fields := make([][]string, len(data))
	maxRowLen := 0
	for i, l := range data {
		fields[i] = splitTabFields(l.Raw)
		maxRowLen = max(maxRowLen, len(fields[i]))
	}

	cols, fields := determineColumns(meta, fields, maxRowLen)
	table := newTable(cols)
	for k, v := range attrs {
		table.Attrs[k] = v
	}

	trimmed := false
	for _, row := range fields {
		r := make(Row, len(cols))
		for i := 0; i < len(cols) && i < len(row); i++ {
			if row[i] != "" {
				r[i] = cellOf(row[i])
			}
		}
		if len(row) > len(cols) {
			trimmed = true
		}
		table.Rows = append(table.Rows, r)
	}
	if trimmed {
		table.Attrs["trim_warning"] = fmt.Sprintf(
			"data rows carried up to %d fields for %d columns; excess fields dropped",
			maxRowLen, len(cols))
		slog.Warn("trimming oversized data rows",
			"path", path, "max_row_len", maxRowLen, "columns", len(cols))
	}
	return table, meta, nil
}

// parseTemplateMetadata walks the commented lines, tracking the current
// section. "# key: value" pairs land in the section map with lowercased
// keys; the flattened attrs keep the original key case.
func parseTemplateMetadata(lines []Line) (*Metadata, map[string]string) {
	meta := &Metadata{Sections: map[string]map[string]string{}}
	attrs := map[string]string{}
	section := ""

	for _, l := range lines {
		s := l.Stripped
		if !strings.HasPrefix(s, "#") {
			continue
		}

		if strings.HasPrefix(s, "##") {
			if strings.ToLower(section) == variablesSection {
				raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l.Raw), "##"))
				if raw == "" {
					continue
				}
				rec := VariableRecord{Fields: splitTabFields(raw)}
				rec.Name = rec.Fields[0]
				meta.Variables = append(meta.Variables, rec)
			}
			continue
		}

		content := strings.TrimSpace(strings.TrimPrefix(s, "#"))
		if content == "" {
			continue
		}
		if key, value, ok := strings.Cut(content, ":"); ok {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if key == "" {
				continue
			}
			sec := meta.Sections[section]
			if sec == nil {
				sec = map[string]string{}
				meta.Sections[section] = sec
			}
			sec[strings.ToLower(key)] = value
			attrKey := key
			if section != "" {
				attrKey = section + "." + key
			}
			attrs[attrKey] = value
			continue
		}
		section = content
	}
	return meta, attrs
}

// trailingDataRegion returns the last maximal run of uncommented non-blank
// lines; commented and uncommented regions may only interleave at that
// boundary.
func trailingDataRegion(lines []Line) []Line {
	end := len(lines)
	for end > 0 && lines[end-1].isBlank() {
		end--
	}
	start := end
	for start > 0 {
		l := lines[start-1]
		if l.isBlank() || strings.HasPrefix(l.Stripped, "#") {
			break
		}
		start--
	}
	return lines[start:end]
}

// determineColumns picks the column list: variable names when the
// Variables section has them, the first data line when all of its fields
// are non-numeric, placeholder names otherwise. The returned field rows
// exclude any line consumed as a header.
func determineColumns(meta *Metadata, fields [][]string, maxRowLen int) ([]ColumnSpec, [][]string) {
	if len(meta.Variables) > 0 {
		cols := make([]ColumnSpec, len(meta.Variables))
		for i, v := range meta.Variables {
			cols[i] = ColumnSpec{Name: v.Name}
		}
		return cols, fields
	}

	if len(fields) > 0 && allFieldsNonNumeric(fields[0]) {
		cols := make([]ColumnSpec, len(fields[0]))
		for i, f := range fields[0] {
			cols[i] = ColumnSpec{Name: f}
		}
		return cols, fields[1:]
	}

	cols := make([]ColumnSpec, maxRowLen)
	for i := range cols {
		cols[i] = ColumnSpec{Name: fmt.Sprintf("unnamed_%d", i)}
	}
	return cols, fields
}

func allFieldsNonNumeric(fields []string) bool {
	for _, f := range fields {
		if f == "" || isNumericToken(f) {
			return false
		}
	}
	return len(fields) > 0
}
