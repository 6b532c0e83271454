package textparse

// BlockKind is the terminal classification of a block. A block starts
// unknown and is assigned exactly one terminal kind by the classifier.
type BlockKind int

const (
	BlockUnknown BlockKind = iota
	BlockNarrative
	BlockHeaderOnly
	BlockCompleteTabular
	BlockDataOnly
)

func (k BlockKind) String() string {
	switch k {
	case BlockNarrative:
		return "narrative"
	case BlockHeaderOnly:
		return "header-only"
	case BlockCompleteTabular:
		return "complete-tabular"
	case BlockDataOnly:
		return "data-only"
	default:
		return "unknown"
	}
}

// Block is a maximal run of consecutive non-blank lines. The pipeline
// fills Stats, Kind, header fields and finally Table in order; no stage
// touches an earlier stage's fields.
type Block struct {
	Index     int
	StartLine int
	EndLine   int
	Lines     []Line

	Stats BlockStats
	Kind  BlockKind

	// TitleLine is the offset within Lines of a single-token title line
	// sitting above the headers, or -1.
	TitleLine    int
	HeaderExtent int
	Headers      []ColumnSpec

	Table *Table
}

// dataStart is the offset within Lines of the first data line.
func (b *Block) dataStart() int {
	start := 0
	if b.TitleLine >= 0 {
		start = b.TitleLine + 1
	}
	return start + b.HeaderExtent
}

func (b *Block) dataLines() []Line {
	return b.Lines[b.dataStart():]
}

// segmentBlocks splits the line stream on blank lines. Consecutive blank
// lines coalesce; empty blocks are never emitted.
func segmentBlocks(lines []Line) []*Block {
	var blocks []*Block
	var cur *Block
	for _, l := range lines {
		if l.isBlank() {
			cur = nil
			continue
		}
		if cur == nil {
			cur = &Block{
				Index:     len(blocks),
				StartLine: l.Index,
				EndLine:   l.Index,
				TitleLine: -1,
			}
			blocks = append(blocks, cur)
		}
		cur.Lines = append(cur.Lines, l)
		cur.EndLine = l.Index
	}
	return blocks
}
