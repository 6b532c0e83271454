// Package textparse extracts tabular data and metadata from plain-text
// paleoclimatology data files.
//
// Two parsers cooperate behind one entry point. Files conforming to the
// NOAA commented-template format go through the standard parser, which
// reads the '#'-prefixed metadata sections and the tab-delimited data
// region. Everything else goes through the non-standard parser, which
// segments the file into blocks of consecutive non-blank lines,
// classifies each block from token-count and numeric-ratio statistics,
// and reconstructs tables either by direct tokenization or by assigning
// tokens to columns through character-interval overlap.
//
// The package is a best-effort structural recognizer: it never invents
// cells that are not present in the input, and blocks it cannot make
// sense of are skipped rather than guessed at.
package textparse

// Version is the parser version exposed through the public surface.
const Version = "0.1.0"
