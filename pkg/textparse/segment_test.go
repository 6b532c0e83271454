package textparse

import "testing"

func mustIngest(t *testing.T, text string) []Line {
	t.Helper()
	lines, err := ingest([]byte(text), "test.txt")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return lines
}

func TestSegmentBlocks_CoalescesBlanks(t *testing.T) {
	lines := mustIngest(t, "a\nb\n\n\n   \nc\n\nd\n")
	blocks := segmentBlocks(lines)

	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	ranges := [][2]int{{0, 1}, {5, 5}, {7, 7}}
	for i, b := range blocks {
		if b.StartLine != ranges[i][0] || b.EndLine != ranges[i][1] {
			t.Errorf("block %d range = %d..%d, want %d..%d",
				i, b.StartLine, b.EndLine, ranges[i][0], ranges[i][1])
		}
		if b.Index != i {
			t.Errorf("block %d carries index %d", i, b.Index)
		}
	}
}

// Blocks must be disjoint and cover every non-blank line in file order.
func TestSegmentBlocks_CoverageInvariant(t *testing.T) {
	text := "x\n\ny z\nw\n\n\nq\n"
	lines := mustIngest(t, text)
	blocks := segmentBlocks(lines)

	covered := map[int]bool{}
	prevEnd := -1
	for _, b := range blocks {
		if b.StartLine <= prevEnd {
			t.Errorf("block %d overlaps previous (start %d, prev end %d)",
				b.Index, b.StartLine, prevEnd)
		}
		prevEnd = b.EndLine
		for _, l := range b.Lines {
			if covered[l.Index] {
				t.Errorf("line %d covered twice", l.Index)
			}
			covered[l.Index] = true
		}
	}
	for _, l := range lines {
		if l.isBlank() {
			if covered[l.Index] {
				t.Errorf("blank line %d should not be covered", l.Index)
			}
			continue
		}
		if !covered[l.Index] {
			t.Errorf("non-blank line %d not covered by any block", l.Index)
		}
	}
}

func TestSegmentBlocks_NoEmptyBlocks(t *testing.T) {
	if blocks := segmentBlocks(mustIngest(t, "\n\n  \n")); len(blocks) != 0 {
		t.Errorf("expected no blocks for blank input, got %d", len(blocks))
	}
}

func TestComputeStats(t *testing.T) {
	lines := mustIngest(t, "Depth  Age  d18O\n1.0  100  -5.1\n2.0  210  -5.3\n")
	st := computeStats(lines)

	if st.Mode[DelimMultiSpace] != 3 {
		t.Errorf("multi-space mode = %d, want 3", st.Mode[DelimMultiSpace])
	}
	if st.CV[DelimMultiSpace] != 0 {
		t.Errorf("multi-space cv = %v, want 0", st.CV[DelimMultiSpace])
	}
	if st.Mode[DelimTab] != 1 {
		t.Errorf("tab mode = %d, want 1", st.Mode[DelimTab])
	}
	// header contributes 0, each data line contributes 1
	want := 2.0 / 3.0
	if diff := st.MeanNumericRatio - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("mean numeric ratio = %v, want %v", st.MeanNumericRatio, want)
	}
}

func TestModeOf_TieBreaksLow(t *testing.T) {
	if got := modeOf([]int{3, 2, 2, 3}); got != 2 {
		t.Errorf("modeOf tie = %d, want 2", got)
	}
	if got := modeOf(nil); got != 0 {
		t.Errorf("modeOf(nil) = %d, want 0", got)
	}
}

// cv == 0 must imply every line has the same token count.
func TestCvOf(t *testing.T) {
	if cvOf([]int{4, 4, 4}) != 0 {
		t.Error("constant series must have cv 0")
	}
	if cvOf([]int{4}) != 0 || cvOf(nil) != 0 {
		t.Error("short series must have cv 0")
	}
	if cvOf([]int{4, 5, 4}) == 0 {
		t.Error("varying series must have cv > 0")
	}
}
