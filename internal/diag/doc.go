// Package diag defines the diagnostic model shared by the analysis passes.
//
// A Diagnostic carries a Severity (Info, Warning, Error), a numeric Code with
// a stable string ID (SYNxxxx, SEMxxxx, IOxxxx), a short Message, a closed
// Primary span and optional Notes. Bag collects them per document with a
// limit, a deterministic order and duplicate removal.
//
// Rendering lives in internal/diagfmt, the LSP range conversion in
// internal/lsp. FormatShort is the one renderer kept here since it needs no
// source text.
package diag
