// Package network provides the in-memory road/utility network that topology
// extraction produces.
//
// # Overview
//
// A [Graph] holds nodes (canonical points) and edges (line features) in
// insertion order. Edges are individually directed or undirected, so a
// one-way street and a two-way street can share a node. Parallel edges and
// loops are allowed; whether they are produced is the builder's policy.
//
// # Basic Usage
//
//	g := network.New(nil)
//	_ = g.AddNode("a")
//	_ = g.AddNode("b")
//	_ = g.AddEdge("e1", "a", "b", false)
//	_ = g.SetAttribute("e1", "name", "Main St")
//
// [Graph.EdgeBetween] finds an existing edge between two nodes in either
// direction; the topology builder uses it for duplicate-edge suppression.
//
// # Errors
//
// Mutators return sentinel errors ([ErrDuplicateNodeID], [ErrUnknownSourceNode]
// and friends) that callers match with errors.Is.
package network
