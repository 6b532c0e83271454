package textparse

import (
	"reflect"
	"testing"
)

func lineOf(text string) Line {
	return Line{Raw: text, Text: expandTabs(text)}
}

func TestTokenizeSpaces_SingleSpace(t *testing.T) {
	got := tokenizeSpaces("Name Age  City", 1)
	want := []Token{
		{Text: "Name", Start: 0, End: 4},
		{Text: "Age", Start: 5, End: 8},
		{Text: "City", Start: 10, End: 14},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenizeSpaces single = %+v, want %+v", got, want)
	}
}

func TestTokenizeSpaces_MultiSpaceKeepsInnerSingles(t *testing.T) {
	got := tokenizeSpaces("Uranium isotopes  Date yr", 2)
	want := []Token{
		{Text: "Uranium isotopes", Start: 0, End: 16},
		{Text: "Date yr", Start: 18, End: 25},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenizeSpaces multi = %+v, want %+v", got, want)
	}
}

func TestTokenizeSpaces_LeadingTrailingWhitespace(t *testing.T) {
	got := tokenizeSpaces("   x  y   ", 2)
	want := []Token{
		{Text: "x", Start: 3, End: 4},
		{Text: "y", Start: 6, End: 7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenizeSpaces = %+v, want %+v", got, want)
	}
}

func TestTokenizeTab(t *testing.T) {
	got := tokenizeTab("age\td18O\t\t-5.1")
	want := []Token{
		{Text: "age", Start: 0, End: 3},
		{Text: "d18O", Start: 4, End: 8},
		{Text: "-5.1", Start: 10, End: 14},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenizeTab = %+v, want %+v", got, want)
	}
}

func TestExpandTabs(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a\tb", "a       b"},
		{"abcdefgh\tx", "abcdefgh        x"},
		{"\t", "        "},
		{"no tabs", "no tabs"},
	}
	for _, c := range cases {
		if got := expandTabs(c.in); got != c.want {
			t.Errorf("expandTabs(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIngest_CRLFAndEncoding(t *testing.T) {
	lines, err := ingest([]byte("a\r\nb\n"), "test.txt")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Raw != "a" || lines[1].Raw != "b" {
		t.Errorf("unexpected lines: %+v", lines)
	}

	// 0xE9 is é in latin-1 and invalid UTF-8 on its own
	lines, err = ingest([]byte{'c', 'a', 'f', 0xE9}, "test.txt")
	if err != nil {
		t.Fatalf("ingest latin-1: %v", err)
	}
	if lines[0].Text != "café" {
		t.Errorf("latin-1 fallback produced %q, want %q", lines[0].Text, "café")
	}
}

func TestIngest_LineBookkeeping(t *testing.T) {
	lines, err := ingest([]byte("  lead\ttrail  \n"), "test.txt")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	l := lines[0]
	if l.Index != 0 {
		t.Errorf("Index = %d, want 0", l.Index)
	}
	if l.LeadingWS != 2 {
		t.Errorf("LeadingWS = %d, want 2", l.LeadingWS)
	}
	if l.Stripped != "lead  trail" {
		t.Errorf("Stripped = %q", l.Stripped)
	}
}
