// Package render prints parsed tables as aligned plain text for the CLI.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Hanaasagi/paleotext/pkg/textparse"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	nullMarker = "<null>"
	minWidth   = 40
	gap        = 2
)

var headerStyle = color.New(color.Bold, color.FgHiCyan)

// TerminalWidth reports the width of the attached terminal, or fallback
// when stdout is not a terminal or is narrower than minWidth.
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w >= minWidth {
		return w
	}
	return fallback
}

// Table writes the table with display-width aligned columns. maxRows
// caps the body (0 means no cap); width clips over-long lines.
func Table(w io.Writer, t *textparse.Table, maxRows, width int) {
	names := t.ColumnNames()
	widths := make([]int, len(names))
	for i, n := range names {
		widths[i] = runewidth.StringWidth(n)
	}

	rows := t.Rows
	truncated := 0
	if maxRows > 0 && len(rows) > maxRows {
		truncated = len(rows) - maxRows
		rows = rows[:maxRows]
	}
	for _, row := range rows {
		for i := range names {
			if cw := runewidth.StringWidth(cellText(row, i)); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	if title := t.Attrs["title"]; title != "" {
		fmt.Fprintln(w, headerStyle.Sprint(title))
	}
	writeLine(w, names, widths, width, true)
	for _, row := range rows {
		cells := make([]string, len(names))
		for i := range names {
			cells[i] = cellText(row, i)
		}
		writeLine(w, cells, widths, width, false)
	}
	if truncated > 0 {
		fmt.Fprintf(w, "… %d more rows\n", truncated)
	}
}

func cellText(row textparse.Row, i int) string {
	if i >= len(row) || !row[i].Valid {
		return nullMarker
	}
	return row[i].Text
}

func writeLine(w io.Writer, cells []string, widths []int, maxWidth int, header bool) {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", gap))
		}
		b.WriteString(runewidth.FillRight(c, widths[i]))
	}
	line := strings.TrimRight(b.String(), " ")
	if maxWidth > 0 {
		line = runewidth.Truncate(line, maxWidth, "…")
	}
	if header {
		line = headerStyle.Sprint(line)
	}
	fmt.Fprintln(w, line)
}
