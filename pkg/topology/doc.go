// Package topology turns a stream of point and line features into a graph.
//
// # Pipeline
//
// Every feature moves through the same steps: its endpoint coordinates
// become candidate points, each candidate is resolved against the points
// already at its position by the merge chain, the surviving canonical points
// are mapped to graph nodes (created on first reference), and for lines an
// edge is created or reused. Geometry is validated before anything is
// touched, so a degenerate feature leaves no trace in the graph.
//
// Point features only contribute attributes: their point joins the index but
// becomes a node only once a line ends there.
//
// # Node attributes
//
// Each time a line resolves a node, the node receives every attribute that
// other features contributed to the canonical point, passed through the node
// filter. A node therefore picks up the street address of a point feature
// or of an earlier line that merged into it.
//
// # Direction
//
// New edges are oriented by a [DirectionResolver]. The default leaves every
// edge undirected; [AttributeDirection] reads a one-way attribute.
package topology
