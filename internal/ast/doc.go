// Package ast holds the typed tree of a rules document and the builder that
// derives it from the concrete syntax tree.
//
// The tree is strictly parent-free. Algorithms that need ancestry carry the
// ancestor chain themselves (see Walk). Every node enumerates its children
// in a fixed order through Children; for MatchBody that order is functions,
// then rules, then matches, regardless of source order.
//
// Optional slots are nil. A nil slot means the corresponding syntax was
// missing or malformed; building never fails below the top level.
package ast
