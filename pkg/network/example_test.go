package network_test

import (
	"fmt"

	"github.com/matzehuels/geograph/pkg/network"
)

func ExampleGraph() {
	// Two streets meeting at a crossing; one of them is one-way.
	g := network.New(nil)
	_ = g.AddNode("west")
	_ = g.AddNode("crossing")
	_ = g.AddNode("north")
	_ = g.AddEdge("e1", "west", "crossing", false)
	_ = g.AddEdge("e2", "crossing", "north", true)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("From crossing:", g.Neighbors("crossing"))
	fmt.Println("From north:", g.Neighbors("north"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// From crossing: [west north]
	// From north: []
}
