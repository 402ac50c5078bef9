// Package analysis bundles the per-document passes into immutable snapshots
// and keeps the latest snapshot per document for concurrent readers.
package analysis
