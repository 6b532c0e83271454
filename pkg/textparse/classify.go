package textparse

// Classification thresholds. The multi-space hypothesis is the canonical
// one: visually aligned columns separate on runs of two or more spaces.
const (
	narrativeNumericMax = 0.3
	headerOnlyMaxLines  = 5
)

// classifyBlock assigns the terminal kind. Rules apply in order, first
// match wins; header extent is only consulted once the cheap statistical
// rules have passed on the block.
func classifyBlock(b *Block) {
	ratio := b.Stats.MeanNumericRatio
	mode := b.Stats.Mode[DelimMultiSpace]

	if ratio < narrativeNumericMax && mode == 1 {
		b.Kind = BlockNarrative
		return
	}
	if ratio < narrativeNumericMax && mode > 1 && len(b.Lines) < headerOnlyMaxLines {
		b.Kind = BlockHeaderOnly
		b.HeaderExtent, b.TitleLine = detectHeaderExtent(b)
		b.Headers = extractHeaders(b)
		return
	}

	b.HeaderExtent, b.TitleLine = detectHeaderExtent(b)
	b.Headers = extractHeaders(b)

	switch {
	case mode <= 1:
		b.Kind = BlockNarrative
	case b.HeaderExtent > 0 && b.dataStart() >= len(b.Lines):
		// headers with nothing below them act as a header donor
		b.Kind = BlockHeaderOnly
	case b.HeaderExtent > 0:
		b.Kind = BlockCompleteTabular
	default:
		// tabular statistics with no header lines of its own; resolved
		// against a preceding header-only block
		b.Kind = BlockDataOnly
	}
}

// detectHeaderExtent finds the leading run of header lines: the lines
// carrying no numeric tokens. The run is accepted only when its bottom
// line's multi-space token count is at least the token-count mode of the
// trailing data portion; the lines above it may carry fewer tokens. A
// single-token first line sitting above qualifying header lines is the
// title line and is excluded from the extent.
func detectHeaderExtent(b *Block) (extent, titleLine int) {
	n := len(b.Lines)
	tokens := make([][]Token, n)
	numericFree := make([]bool, n)
	for i, l := range b.Lines {
		tokens[i] = tokenizeLine(l, DelimMultiSpace)
		numericFree[i] = true
		for _, t := range tokens[i] {
			if isNumericToken(t.Text) {
				numericFree[i] = false
				break
			}
		}
	}

	titleLine = -1
	start := 0
	if n >= 2 && len(tokens[0]) == 1 && numericFree[0] &&
		numericFree[1] && len(tokens[1]) > 1 {
		titleLine = 0
		start = 1
	}

	run := 0
	for i := start; i < n && numericFree[i]; i++ {
		run++
	}
	if run == 0 {
		return 0, -1
	}

	// The bottom line of the run is the most granular header row and must
	// carry at least as many tokens as the data lines below; upper lines
	// may be coarser (spanning group labels).
	dataMode := modeOf(b.Stats.Counts[DelimMultiSpace][start+run:])
	if len(tokens[start+run-1]) < dataMode {
		return 0, -1
	}
	return run, titleLine
}
