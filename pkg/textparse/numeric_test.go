package textparse

import "testing"

func TestIsNumericValue_Plain(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"1", true},
		{"-2.5", true},
		{".75", true},
		{"1e-3", true},
		{"+50", true},
		{"1,234.5", true},
		{"abc", false},
		{"", false},
		{"1-2-3", false},
		{"e10", false},
		{".", false},
	}
	for _, c := range cases {
		if got := isNumericValue(c.token); got != c.want {
			t.Errorf("isNumericValue(%q) = %v, want %v", c.token, got, c.want)
		}
	}
}

func TestIsNumericValue_Wrapped(t *testing.T) {
	for _, tok := range []string{"(90)", "[12.4]", "{(10)}", "((8.5))"} {
		if !isNumericValue(tok) {
			t.Errorf("isNumericValue(%q) = false, want true", tok)
		}
	}
}

func TestIsNumericValue_Composite(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"6.80 (8.98)", true},
		{"6.80(8.98)", true},
		{"  5.1 (0.2)  ", true},
		{"5 (abc)", false},
		{"abc (5)", false},
		{"1.5 ± 0.1", true},
		{"1.5±0.1", true},
		{"10-20", true},
		{"10–20", true}, // en dash
		{"3.4‰", true},  // trailing mark stripped
		{"12*", true},
		{"1.2 3.4", true},
		{"1.2 abc", false},
	}
	for _, c := range cases {
		if got := isNumericValue(c.token); got != c.want {
			t.Errorf("isNumericValue(%q) = %v, want %v", c.token, got, c.want)
		}
	}
}

func TestIsNumericToken_MissingSentinels(t *testing.T) {
	for _, tok := range []string{"NaN", "nan", "na", "-", "–"} {
		if !isNumericToken(tok) {
			t.Errorf("isNumericToken(%q) = false, want true", tok)
		}
	}
	if isNumericValue("-") {
		t.Error("bare dash should not read as a numeric value")
	}
}

func TestNumericRatio(t *testing.T) {
	tokens := []Token{
		{Text: "Depth"}, {Text: "12.5"}, {Text: "1020"}, {Text: "NaN"},
	}
	if got := numericRatio(tokens); got != 0.75 {
		t.Errorf("numericRatio = %v, want 0.75", got)
	}
	if got := numericRatio(nil); got != 0 {
		t.Errorf("numericRatio(nil) = %v, want 0", got)
	}
}
