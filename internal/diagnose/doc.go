// Package diagnose derives diagnostics from a parsed document.
//
// Syntax works on the concrete tree, Semantic on the typed tree, Version on
// the rules_version header. All three are pure functions of their inputs;
// callers merge the results per document version.
package diagnose
