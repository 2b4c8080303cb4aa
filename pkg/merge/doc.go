// Package merge implements the ordered rule chain that decides whether a
// newly observed point fuses with the points already at its position.
//
// A [Rule] pairs a [Predicate] with an [Action]. A [Chain] evaluates its rules
// in order; each rule sees the attribute sets left behind by the merges of the
// rules before it, which allows multi-pass disambiguation such as "merge by
// shared link id first, then by matching elevation".
//
// Rules are plain values. Build them in Go from the predicate library
// ([AttributeMatches], [Has], [AttributeEquals] and the [All], [Any], [Not]
// combinators) or declaratively from [RuleSpec] values with [Compile].
//
// # Actions
//
//	Action       survivor   absorbs            index effect
//	delete_new   existing   candidate's sets   candidate never stored
//	delete_old   candidate  existing's sets    existing removed
//	keep_old     existing   candidate's sets   nothing removed
//	keep_new     candidate  existing's sets    nothing removed
//	nothing      candidate  -                  -
//
// The loser of every merge is marked superseded and disappears from
// colocation queries, whether or not it stays stored.
package merge
