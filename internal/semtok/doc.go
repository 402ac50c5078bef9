// Package semtok classifies syntax tree nodes into semantic tokens and
// encodes them in the relative five-integer form editors consume.
package semtok
