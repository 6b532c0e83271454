package textparse

import (
	"fmt"
	"math"
	"strings"
)

// Interval is a half-open [Lo, Hi) column range within a line.
type Interval struct {
	Lo, Hi int
}

func (iv Interval) overlap(o Interval) int {
	if n := min(iv.Hi, o.Hi) - max(iv.Lo, o.Lo); n > 0 {
		return n
	}
	return 0
}

func (iv Interval) overlaps(o Interval) bool { return iv.overlap(o) > 0 }

func (iv Interval) mid() float64 { return float64(iv.Lo+iv.Hi) / 2 }

// ColumnSpec names one table column. Interval is present for columns
// derived from positioned header tokens and absent for columns that came
// from a metadata variable list.
type ColumnSpec struct {
	Name     string
	Interval *Interval
}

// Cell is a string value or the explicit null sentinel (Valid false).
// Missing cells are always represented, never dropped.
type Cell struct {
	Text  string
	Valid bool
}

func cellOf(s string) Cell { return Cell{Text: s, Valid: true} }

// Row always has exactly as many cells as its table has columns.
type Row []Cell

// Table is the structured output of either parser: ordered columns,
// rows of string-or-null cells, and free-form attributes. No type
// coercion happens at this layer.
type Table struct {
	Columns []ColumnSpec
	Rows    []Row
	Attrs   map[string]string
}

func newTable(cols []ColumnSpec) *Table {
	return &Table{Columns: cols, Attrs: map[string]string{}}
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ============================================================================
// Header extraction
// ============================================================================

// extractHeaders turns the block's header lines into column specs. A
// single header line maps tokens to columns directly; stacked header
// lines go through the overlap merge.
func extractHeaders(b *Block) []ColumnSpec {
	if b.HeaderExtent == 0 {
		return nil
	}
	start := 0
	if b.TitleLine >= 0 {
		start = b.TitleLine + 1
	}
	rows := make([][]Token, 0, b.HeaderExtent)
	for _, l := range b.Lines[start : start+b.HeaderExtent] {
		rows = append(rows, tokenizeLine(l, DelimMultiSpace))
	}

	var specs []ColumnSpec
	if len(rows) == 1 {
		specs = make([]ColumnSpec, 0, len(rows[0]))
		for _, tok := range rows[0] {
			iv := tok.interval()
			specs = append(specs, ColumnSpec{Name: tok.Text, Interval: &iv})
		}
	} else {
		specs = mergeHeaderRows(rows)
	}
	disambiguateNames(specs)
	return specs
}

// mergeHeaderRows folds stacked header lines into one column list. The
// bottom line is the most granular and supplies one column per token; each
// column's interval widens to cover the upper-line tokens it overlaps, and
// its name concatenates the overlapping tokens top to bottom. When two
// bottom tokens share an upper token the widened intervals collide; the
// collision is cut at the midpoint of the gap between the bottom tokens so
// sibling columns keep disjoint intervals.
func mergeHeaderRows(rows [][]Token) []ColumnSpec {
	base := rows[len(rows)-1]
	uppers := rows[:len(rows)-1]

	finals := make([]Interval, len(base))
	for i, tok := range base {
		final := tok.interval()
		for _, row := range uppers {
			for _, up := range row {
				if up.interval().overlaps(tok.interval()) {
					final.Lo = min(final.Lo, up.Start)
					final.Hi = max(final.Hi, up.End)
				}
			}
		}
		finals[i] = final
	}

	for i := 0; i+1 < len(base); i++ {
		if finals[i].Hi > finals[i+1].Lo {
			mid := (base[i].End + base[i+1].Start + 1) / 2
			if finals[i].Hi > mid {
				finals[i].Hi = mid
			}
			if finals[i+1].Lo < mid {
				finals[i+1].Lo = mid
			}
		}
	}

	specs := make([]ColumnSpec, len(base))
	for i, tok := range base {
		var parts []string
		for _, row := range uppers {
			for _, up := range row {
				if up.interval().overlaps(tok.interval()) {
					parts = append(parts, up.Text)
				}
			}
		}
		parts = append(parts, tok.Text)
		iv := finals[i]
		specs[i] = ColumnSpec{Name: strings.Join(parts, " "), Interval: &iv}
	}
	return specs
}

// disambiguateNames appends _2, _3, … to repeated column names in
// left-to-right order.
func disambiguateNames(specs []ColumnSpec) {
	seen := make(map[string]int, len(specs))
	for i := range specs {
		name := specs[i].Name
		seen[name]++
		if seen[name] > 1 {
			specs[i].Name = fmt.Sprintf("%s_%d", name, seen[name])
		}
	}
}

// ============================================================================
// Row construction
// ============================================================================

// buildRowsDirect tokenizes each data line under one delimiter and
// assigns positionally. Short rows are right-padded with nulls; overflow
// tokens are joined into the last column.
func buildRowsDirect(lines []Line, d Delimiter, ncols int) []Row {
	rows := make([]Row, 0, len(lines))
	for _, l := range lines {
		tokens := tokenizeLine(l, d)
		row := make(Row, ncols)
		switch {
		case len(tokens) <= ncols:
			for i, tok := range tokens {
				row[i] = cellOf(tok.Text)
			}
		default:
			for i := 0; i < ncols-1; i++ {
				row[i] = cellOf(tokens[i].Text)
			}
			rest := make([]string, 0, len(tokens)-ncols+1)
			for _, tok := range tokens[ncols-1:] {
				rest = append(rest, tok.Text)
			}
			row[ncols-1] = cellOf(strings.Join(rest, " "))
		}
		rows = append(rows, row)
	}
	return rows
}

// assignRowByOverlap maps positioned tokens onto columns by maximum
// interval overlap. Ties break toward the column whose midpoint is
// closest to the token's, then leftmost. A token overlapping no column is
// assigned to the immediate right-hand column, or the rightmost when none
// exists. Tokens landing in the same cell concatenate left to right.
func assignRowByOverlap(tokens []Token, cols []ColumnSpec) Row {
	row := make(Row, len(cols))
	for _, tok := range tokens {
		j := bestColumnFor(tok, cols)
		if j < 0 {
			continue
		}
		if row[j].Valid {
			row[j].Text += " " + tok.Text
		} else {
			row[j] = cellOf(tok.Text)
		}
	}
	return row
}

func bestColumnFor(tok Token, cols []ColumnSpec) int {
	if len(cols) == 0 {
		return -1
	}
	tiv := tok.interval()
	best := -1
	bestOv := 0
	for j, c := range cols {
		if c.Interval == nil {
			continue
		}
		ov := c.Interval.overlap(tiv)
		if ov == 0 {
			continue
		}
		switch {
		case ov > bestOv:
			best, bestOv = j, ov
		case ov == bestOv:
			dNew := math.Abs(c.Interval.mid() - tiv.mid())
			dOld := math.Abs(cols[best].Interval.mid() - tiv.mid())
			if dNew < dOld {
				best = j
			}
		}
	}
	if best >= 0 {
		return best
	}
	// free token: first column starting at or beyond the token's end
	for j, c := range cols {
		if c.Interval != nil && c.Interval.Lo >= tok.End {
			return j
		}
	}
	return len(cols) - 1
}
