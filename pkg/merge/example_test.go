package merge_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/merge"
	"github.com/matzehuels/geograph/pkg/point"
	"github.com/matzehuels/geograph/pkg/spatial"
)

func ExampleChain_Merge() {
	// Fuse endpoints on the same level; keep the one that knows its street.
	chain := merge.NewChain(merge.Rule{
		Name:   "address",
		Action: merge.KeepOld,
		Match: merge.All(
			merge.AttributeMatches("Z_LEVEL"),
			merge.OldHas("ADDR_ST"),
			merge.Not(merge.NewHas("ADDR_ST")),
		),
	})
	ix := spatial.New(spatial.DefaultOptions())

	add := func(id, fid string, set attr.Set) *point.Point {
		p, err := chain.Merge(point.NewFromFeature(id, orb.Point{10, 10}, fid, set), ix)
		if err != nil {
			panic(err)
		}
		return p
	}

	main := add("p1", "F1", attr.Set{"Z_LEVEL": "1", "ADDR_ST": "Main St"})
	side := add("p2", "F2", attr.Set{"Z_LEVEL": "1"})
	bridge := add("p3", "F3", attr.Set{"Z_LEVEL": "2"})

	fmt.Println("side merged:", side == main)
	fmt.Println("bridge merged:", bridge == main)
	fmt.Println("features at p1:", main.FeatureIDs())
	// Output:
	// side merged: true
	// bridge merged: false
	// features at p1: [F1 F2]
}
