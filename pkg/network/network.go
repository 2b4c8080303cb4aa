package network

import (
	"errors"
	"slices"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/attr"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the id is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same id already exists. Nodes are created exactly once.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] when the id is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] for a reused edge id.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when From is missing.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when To is missing.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownElement is returned by [Graph.SetAttribute] when the id names
	// neither a node nor an edge.
	ErrUnknownElement = errors.New("unknown graph element")

	// ErrAmbiguousElement is returned by [Graph.SetAttribute] when a node and
	// an edge share the id.
	ErrAmbiguousElement = errors.New("element ID names both a node and an edge")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// Node is a graph vertex: one canonical point of the topology.
type Node struct {
	ID    string
	Pos   orb.Point
	Attrs attr.Set // never nil after AddNode
}

// Edge connects two nodes. Undirected edges may be traversed both ways.
type Edge struct {
	ID       string
	From     string
	To       string
	Directed bool
	Attrs    attr.Set       // never nil after AddEdge
	Geometry orb.LineString // source polyline, when known
}

// Other returns the endpoint of e opposite to id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Graph is a mixed directed/undirected multigraph with insertion-ordered
// nodes and edges.
//
// The zero value is not usable; use [New].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes     []*Node
	nodeIndex map[string]int
	edges     []*Edge
	edgeIndex map[string]int
	incident  map[string][]int // node id -> edge positions
	meta      attr.Set
}

// New creates an empty graph with optional graph-level metadata.
func New(meta attr.Set) *Graph {
	if meta == nil {
		meta = attr.Set{}
	}
	return &Graph{
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[string]int),
		incident:  make(map[string][]int),
		meta:      meta,
	}
}

// Meta returns the graph-level metadata map. It is never nil.
func (g *Graph) Meta() attr.Set { return g.meta }

// AddNode adds a node without position or attributes.
func (g *Graph) AddNode(id string) error {
	return g.Insert(Node{ID: id})
}

// Insert adds a fully populated node.
func (g *Graph) Insert(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodeIndex[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Attrs == nil {
		n.Attrs = attr.Set{}
	}
	g.nodeIndex[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, &n)
	return nil
}

// AddEdge adds an edge between two existing nodes.
func (g *Graph) AddEdge(id, from, to string, directed bool) error {
	return g.Connect(Edge{ID: id, From: from, To: to, Directed: directed})
}

// Connect adds a fully populated edge.
func (g *Graph) Connect(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := g.edgeIndex[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	if _, ok := g.nodeIndex[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodeIndex[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Attrs == nil {
		e.Attrs = attr.Set{}
	}
	pos := len(g.edges)
	g.edgeIndex[e.ID] = pos
	g.edges = append(g.edges, &e)
	g.incident[e.From] = append(g.incident[e.From], pos)
	if e.To != e.From {
		g.incident[e.To] = append(g.incident[e.To], pos)
	}
	return nil
}

// SetAttribute stores key=value on the node or edge called id.
func (g *Graph) SetAttribute(id, key string, value any) error {
	ni, isNode := g.nodeIndex[id]
	ei, isEdge := g.edgeIndex[id]
	switch {
	case isNode && isEdge:
		return ErrAmbiguousElement
	case isNode:
		g.nodes[ni].Attrs[key] = value
	case isEdge:
		g.edges[ei].Attrs[key] = value
	default:
		return ErrUnknownElement
	}
	return nil
}

// SetPosition records where a node sits.
func (g *Graph) SetPosition(id string, pos orb.Point) error {
	i, ok := g.nodeIndex[id]
	if !ok {
		return ErrUnknownElement
	}
	g.nodes[i].Pos = pos
	return nil
}

// SetGeometry records the polyline an edge was built from.
func (g *Graph) SetGeometry(id string, line orb.LineString) error {
	i, ok := g.edgeIndex[id]
	if !ok {
		return ErrUnknownElement
	}
	g.edges[i].Geometry = slices.Clone(line)
	return nil
}

// EdgeBetween returns the first edge joining a and b in either direction.
func (g *Graph) EdgeBetween(a, b string) (string, bool) {
	for _, pos := range g.incident[a] {
		e := g.edges[pos]
		if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
			return e.ID, true
		}
	}
	return "", false
}

// Node returns the node with the given id. The pointer refers to the stored
// node, so attribute changes affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (*Edge, bool) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return nil, false
	}
	return g.edges[i], true
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Incident returns the edges touching node id, in insertion order.
func (g *Graph) Incident(id string) []*Edge {
	out := make([]*Edge, 0, len(g.incident[id]))
	for _, pos := range g.incident[id] {
		out = append(out, g.edges[pos])
	}
	return out
}

// Degree returns the number of edge ends at node id. A loop counts twice.
func (g *Graph) Degree(id string) int {
	d := 0
	for _, e := range g.Incident(id) {
		d++
		if e.From == e.To {
			d++
		}
	}
	return d
}

// Neighbors returns the distinct nodes reachable from id over one edge,
// honouring edge direction.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	for _, e := range g.Incident(id) {
		if e.Directed && e.From != id {
			continue
		}
		if n := e.Other(id); !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// Components returns the number of weakly connected components.
func (g *Graph) Components() int {
	seen := make(map[string]bool, len(g.nodes))
	count := 0
	for _, n := range g.nodes {
		if seen[n.ID] {
			continue
		}
		count++
		stack := []string{n.ID}
		seen[n.ID] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, e := range g.Incident(cur) {
				if next := e.Other(cur); !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return count
}

// Validate checks that every edge references existing nodes.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodeIndex[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := g.nodeIndex[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
