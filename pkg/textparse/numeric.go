package textparse

import (
	"regexp"
	"strings"
)

// Numeric recognition is deliberately permissive: measurement files carry
// ranges, uncertainties, footnote marks and bracket wrapping around values
// that are numeric for classification purposes.

var (
	plainNumberRe   = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	trailingMarksRe = regexp.MustCompile(`[†‡*°%‰§#^~+]+$`)
	valueWithParenRe = regexp.MustCompile(`^(.*?\S)\s*\(([^()]*)\)\s*$`)
)

// unicodeDashes are folded into ASCII '-' before range detection.
const unicodeDashes = "‐‑‒–—−"

// isMissingToken matches the "numeric-like missing" sentinels, which count
// as numeric for ratio purposes.
func isMissingToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nan", "na", "-", "–":
		return true
	}
	return false
}

func isNumericToken(s string) bool {
	return isMissingToken(s) || isNumericValue(s)
}

func stripWrappingBrackets(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && strings.ContainsRune("([{", rune(s[0])) && strings.ContainsRune(")]}", rune(s[len(s)-1])) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func normalizePiece(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = trailingMarksRe.ReplaceAllString(strings.TrimSpace(s), "")
	for _, d := range unicodeDashes {
		s = strings.ReplaceAll(s, string(d), "-")
	}
	return strings.TrimSpace(s)
}

// isNumericValue reports whether the token reads as a number: a plain
// mantissa/exponent form, a value with parenthetical uncertainty
// ("6.80 (8.98)"), an a±b pair, a two-piece range ("10-20", en/em dashes
// included), or a whitespace cluster of numbers.
func isNumericValue(tok string) bool {
	t := stripWrappingBrackets(tok)
	if t == "" {
		return false
	}
	norm := normalizePiece(t)
	if plainNumberRe.MatchString(norm) {
		return true
	}

	if m := valueWithParenRe.FindStringSubmatch(t); m != nil {
		left := normalizePiece(stripWrappingBrackets(m[1]))
		inside := normalizePiece(stripWrappingBrackets(m[2]))
		return (plainNumberRe.MatchString(left) || isNumericValue(left)) &&
			(plainNumberRe.MatchString(inside) || isNumericValue(inside))
	}

	if strings.Contains(t, "±") {
		parts := splitNonEmpty(t, "±")
		return len(parts) == 2 && allNumeric(parts)
	}

	if strings.Contains(norm, "-") {
		pieces := splitNonEmpty(norm, "-")
		if len(pieces) == 2 && allNumeric(pieces) {
			return true
		}
	}

	if fields := strings.Fields(t); len(fields) > 1 && allNumeric(fields) {
		return true
	}

	return plainNumberRe.MatchString(normalizePiece(stripWrappingBrackets(norm)))
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func allNumeric(parts []string) bool {
	for _, p := range parts {
		if !isNumericValue(p) {
			return false
		}
	}
	return true
}

// numericRatio is the fraction of tokens reading as numeric (missing
// sentinels included). Zero for an empty token list.
func numericRatio(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	n := 0
	for _, t := range tokens {
		if isNumericToken(t.Text) {
			n++
		}
	}
	return float64(n) / float64(len(tokens))
}
