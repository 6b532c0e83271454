package textparse

import (
	"reflect"
	"strings"
	"testing"
)

const templateHeader = "# Contribution_Date\n" +
	"#   Date: 2015-01-01\n" +
	"# Variables\n" +
	"## age\tage\tC\t,\tyears BP\t\t\t\t\tC\n" +
	"## d18O\td18O\tC\t,\tpermil\t\t\t\t\tC\n"

func parseStandardText(t *testing.T, text string) (*Table, *Metadata) {
	t.Helper()
	table, meta, err := parseStandard(mustIngest(t, text), "study.txt")
	if err != nil {
		t.Fatalf("parseStandard: %v", err)
	}
	return table, meta
}

func rowTexts(r Row) []string {
	out := make([]string, len(r))
	for i, c := range r {
		if c.Valid {
			out[i] = c.Text
		} else {
			out[i] = "<null>"
		}
	}
	return out
}

func TestParseStandard_TemplateWithData(t *testing.T) {
	table, meta := parseStandardText(t, templateHeader+"1000\t-5.1\n1100\t-5.3\n")

	if got := table.ColumnNames(); !reflect.DeepEqual(got, []string{"age", "d18O"}) {
		t.Fatalf("columns = %v", got)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if got := rowTexts(table.Rows[0]); !reflect.DeepEqual(got, []string{"1000", "-5.1"}) {
		t.Errorf("row 0 = %v", got)
	}
	if got := rowTexts(table.Rows[1]); !reflect.DeepEqual(got, []string{"1100", "-5.3"}) {
		t.Errorf("row 1 = %v", got)
	}

	if got := table.Attrs["Contribution_Date.Date"]; got != "2015-01-01" {
		t.Errorf("attrs[Contribution_Date.Date] = %q", got)
	}
	if got := meta.Sections["Contribution_Date"]["date"]; got != "2015-01-01" {
		t.Errorf("metadata date = %q", got)
	}
	if len(meta.Variables) != 2 || meta.Variables[0].Name != "age" {
		t.Errorf("variables = %+v", meta.Variables)
	}
}

func TestParseStandard_PadsShortRows(t *testing.T) {
	text := "# Variables\n## x\n## y\n## z\na\tb\tc\nd\te\n"
	table, _ := parseStandardText(t, text)

	if got := rowTexts(table.Rows[0]); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("row 0 = %v", got)
	}
	if got := rowTexts(table.Rows[1]); !reflect.DeepEqual(got, []string{"d", "e", "<null>"}) {
		t.Errorf("row 1 = %v", got)
	}
	if _, ok := table.Attrs["trim_warning"]; ok {
		t.Error("trim_warning must not be set when padding")
	}
}

func TestParseStandard_TrimsWideRows(t *testing.T) {
	text := "# Variables\n## x\n## y\na\tb\tc\n"
	table, _ := parseStandardText(t, text)

	if got := rowTexts(table.Rows[0]); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("row 0 = %v", got)
	}
	if _, ok := table.Attrs["trim_warning"]; !ok {
		t.Error("trim_warning attr not set")
	}
}

func TestParseStandard_ColumnFallbacks(t *testing.T) {
	// no Variables section: first all-string data line supplies names
	table, _ := parseStandardText(t, "# Title\n#   Study_Name: x\nage\td18O\n1000\t-5.1\n")
	if got := table.ColumnNames(); !reflect.DeepEqual(got, []string{"age", "d18O"}) {
		t.Fatalf("columns = %v", got)
	}
	if len(table.Rows) != 1 {
		t.Errorf("header line must not become a data row (rows = %d)", len(table.Rows))
	}

	// numeric first line: placeholder names
	table, _ = parseStandardText(t, "# Title\n#   Study_Name: x\n1000\t-5.1\n")
	if got := table.ColumnNames(); !reflect.DeepEqual(got, []string{"unnamed_0", "unnamed_1"}) {
		t.Fatalf("columns = %v", got)
	}
	if len(table.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(table.Rows))
	}
}

func TestParseStandard_EmptyData(t *testing.T) {
	_, _, err := parseStandard(mustIngest(t, templateHeader), "study.txt")
	if !IsKind(err, KindEmptyData) {
		t.Fatalf("err = %v, want EmptyData", err)
	}
}

// Under the tab delimiter, rejoining the emitted rows reproduces the
// original data lines.
func TestParseStandard_TabRoundTrip(t *testing.T) {
	dataLines := []string{"1000\t-5.1", "1100\t-5.3"}
	table, _ := parseStandardText(t, templateHeader+strings.Join(dataLines, "\n")+"\n")

	for i, r := range table.Rows {
		parts := make([]string, len(r))
		for j, c := range r {
			parts[j] = c.Text
		}
		if got := strings.Join(parts, "\t"); got != dataLines[i] {
			t.Errorf("round trip row %d = %q, want %q", i, got, dataLines[i])
		}
	}
}
