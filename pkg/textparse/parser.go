package textparse

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// proprietaryTypes are NOAA formats distributed alongside the text files;
// they need dedicated decoders and are rejected with a pointed message.
var proprietaryTypes = map[string]bool{
	".crn": true,
	".rwl": true,
	".fhx": true,
	".lpd": true,
}

// Parser drives the full ingestion pipeline. The zero value is not ready
// for use; construct with New.
type Parser struct {
	sentinels  map[string]bool
	skipToData bool
	log        *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithSentinels adds words to the template sentinel vocabulary.
func WithSentinels(words ...string) Option {
	return func(p *Parser) {
		for _, w := range words {
			if w = strings.TrimSpace(w); w != "" {
				p.sentinels[w] = true
			}
		}
	}
}

// WithDataDescriptorSkip makes the non-standard parser skip everything up
// to and including the first "DATA:" descriptor line. Files without the
// descriptor then fail with ParsingError.
func WithDataDescriptorSkip() Option {
	return func(p *Parser) { p.skipToData = true }
}

// WithLogger sets the logger used for block-level decisions.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// New builds a Parser with the default sentinel vocabulary.
func New(opts ...Option) *Parser {
	p := &Parser{
		sentinels: make(map[string]bool, len(defaultSentinels)),
		log:       slog.Default(),
	}
	for _, w := range defaultSentinels {
		p.sentinels[w] = true
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads and parses a local file.
func (p *Parser) ParseFile(path string) ([]*Table, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		e := newError(KindReadError, path, "reading input file")
		e.Err = err
		return nil, e
	}
	return p.Parse(data, path)
}

// Parse parses an in-memory buffer. name is a filename hint used for the
// extension gate and error reporting.
func (p *Parser) Parse(data []byte, name string) ([]*Table, error) {
	if err := checkExtension(name); err != nil {
		return nil, err
	}
	lines, err := ingest(data, name)
	if err != nil {
		return nil, err
	}

	if detectTemplate(lines, p.sentinels) == TemplateStandard {
		p.log.Debug("template sentinel found, using standard parser", "path", name)
		table, _, err := parseStandard(lines, name)
		if err != nil {
			return nil, err
		}
		return []*Table{table}, nil
	}
	return p.parseNonStandard(lines, name)
}

// ParseStandard parses a buffer known to conform to the template and
// returns the metadata alongside the table.
func (p *Parser) ParseStandard(data []byte, name string) (*Table, *Metadata, error) {
	if err := checkExtension(name); err != nil {
		return nil, nil, err
	}
	lines, err := ingest(data, name)
	if err != nil {
		return nil, nil, err
	}
	return parseStandard(lines, name)
}

// parseNonStandard runs the block pipeline: segment, annotate, classify,
// construct. Blocks that cannot be turned into tables are skipped; the
// whole file fails only when nothing tabular survives.
func (p *Parser) parseNonStandard(lines []Line, name string) ([]*Table, error) {
	if p.skipToData {
		at := findDataDescriptor(lines)
		if at < 0 {
			return nil, newError(KindParsingError, name, "no DATA: descriptor found")
		}
		lines = lines[at+1:]
	}

	blocks := segmentBlocks(lines)
	for _, b := range blocks {
		b.Stats = computeStats(b.Lines)
		classifyBlock(b)
		p.log.Debug("classified block",
			"path", name,
			"block", b.Index,
			"lines", fmt.Sprintf("%d..%d", b.StartLine, b.EndLine),
			"kind", b.Kind.String(),
			"header_extent", b.HeaderExtent)
	}

	var tables []*Table
	for i, b := range blocks {
		switch b.Kind {
		case BlockCompleteTabular:
			p.constructTabular(b)
		case BlockDataOnly:
			p.adoptHeaders(blocks, i)
		}
		if b.Table == nil {
			continue
		}
		b.Table.Attrs["source_block_range"] = fmt.Sprintf("%d..%d", b.StartLine, b.EndLine)
		if b.TitleLine >= 0 {
			b.Table.Attrs["title"] = b.Lines[b.TitleLine].Stripped
		}
		tables = append(tables, b.Table)
	}

	if len(tables) == 0 {
		return nil, newError(KindParsingError, name, "no block classifiable as tabular")
	}
	return tables, nil
}

// constructTabular builds the table for a block that carries its own
// headers. Uniform data rows go through direct construction; ragged rows
// fall back to interval-overlap assignment.
func (p *Parser) constructTabular(b *Block) {
	if len(b.Headers) == 0 {
		return
	}
	data := b.dataLines()
	if len(data) == 0 {
		// nothing below the headers; the block acts as a header donor
		b.Kind = BlockHeaderOnly
		return
	}
	if d, ok := strictDelimiter(data); ok {
		b.Table = newTable(b.Headers)
		b.Table.Rows = buildRowsDirect(data, d, len(b.Headers))
		return
	}
	b.Table = newTable(b.Headers)
	for _, l := range data {
		b.Table.Rows = append(b.Table.Rows, assignRowByOverlap(tokenizeLine(l, DelimMultiSpace), b.Headers))
	}
}

// adoptHeaders resolves a data-only block against the nearest preceding
// header-only block. When some delimiter's token-count mode matches the
// donor's column count the rows build directly; otherwise each row is
// overlap-assigned against the donor's column intervals.
func (p *Parser) adoptHeaders(blocks []*Block, idx int) {
	b := blocks[idx]
	var donor *Block
	for j := idx - 1; j >= 0; j-- {
		if blocks[j].Kind == BlockHeaderOnly && len(blocks[j].Headers) > 0 {
			donor = blocks[j]
			break
		}
	}
	if donor == nil {
		p.log.Debug("data-only block has no preceding headers, skipping",
			"block", b.Index)
		return
	}

	ncols := len(donor.Headers)
	for _, d := range []Delimiter{DelimTab, DelimMultiSpace, DelimSingleSpace} {
		if b.Stats.Mode[d] == ncols {
			b.Table = newTable(donor.Headers)
			b.Table.Rows = buildRowsDirect(b.Lines, d, ncols)
			return
		}
	}
	b.Table = newTable(donor.Headers)
	for _, l := range b.Lines {
		b.Table.Rows = append(b.Table.Rows, assignRowByOverlap(tokenizeLine(l, DelimMultiSpace), donor.Headers))
	}
}

// strictDelimiter returns the first hypothesis, in tab → multi-space →
// single-space order, under which every data line has the same multi-token
// count.
func strictDelimiter(lines []Line) (Delimiter, bool) {
	for _, d := range []Delimiter{DelimTab, DelimMultiSpace, DelimSingleSpace} {
		counts := make([]int, len(lines))
		for i, l := range lines {
			counts[i] = len(tokenizeLine(l, d))
		}
		if cvOf(counts) == 0 && modeOf(counts) > 1 {
			return d, true
		}
	}
	return 0, false
}

func findDataDescriptor(lines []Line) int {
	for i, l := range lines {
		if strings.HasPrefix(strings.ToLower(l.Stripped), "data:") {
			return i
		}
	}
	return -1
}

func checkExtension(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	if proprietaryTypes[ext] {
		return newError(KindUnsupportedFileType, name,
			fmt.Sprintf("file type %q is a proprietary format; only plain .txt files are supported", ext))
	}
	if ext != ".txt" {
		return newError(KindUnsupportedFileType, name,
			fmt.Sprintf("file type %q is not plain text; only .txt files are supported", ext))
	}
	return nil
}

// Parse parses an in-memory buffer with the default parser configuration.
func Parse(data []byte, name string) ([]*Table, error) {
	return New().Parse(data, name)
}

// ParseFile parses a local file with the default parser configuration.
func ParseFile(path string) ([]*Table, error) {
	return New().ParseFile(path)
}
