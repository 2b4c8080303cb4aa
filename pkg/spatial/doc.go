// Package spatial provides the quadtree that owns every live point during
// topology extraction and answers "who is here?" within a fixed tolerance.
//
// # Layout
//
// The tree is an arena. Points sit in a flat slot slice; cells sit in a
// second slice and reference their four children by index. After a rebuild
// each leaf owns a contiguous range of a shared order slice. Points inserted
// since then are appended to a small per-leaf pending bucket, so inserts are
// O(depth) and never restructure the tree.
//
// # Boundaries
//
// Children use half-open intervals: a coordinate equal to a split line
// belongs to the east/north child. The outermost edges of the root are
// unbounded, so a point outside the bounds of the last rebuild still lands in
// exactly one leaf. Queries visit every child whose region meets the
// epsilon box around the query, which keeps near-boundary hits.
//
// # Rebuilds
//
// Rebuilding is amortized: after ReorganizeEvery mutations the index compacts
// removed slots and re-splits leaves that grew past LeafCapacity. Query
// results are exact between rebuilds; only their cost drifts. Call
// [Index.Reorganize] at the end of a batch to leave the tree balanced.
//
// # Concurrency
//
// Index is not safe for concurrent use. Callers that share one across
// goroutines must serialize access.
package spatial
