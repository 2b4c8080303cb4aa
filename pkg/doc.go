// Package pkg holds the geograph libraries.
//
// # Overview
//
// geograph turns GIS point and line features into a topological graph. The
// packages fall into three groups:
//
//  1. Core: [attr], [point], [spatial], [merge] and [topology] decide which
//     colocated coordinates are one junction and emit nodes and edges.
//  2. Adapters: [feature] and [feature/geojson] read input, [network] holds
//     the built graph, [io] and [render/dot] write it out.
//  3. Infrastructure: [config], [cache], [pipeline], [httputil],
//     [observability], [errors] and [buildinfo].
//
// # Data flow
//
//	GeoJSON document
//	         ↓
//	    [feature/geojson] (decode features)
//	         ↓
//	    [topology] Builder ← [merge] Chain ← [config] rules
//	         ↓               ↕
//	    [network] Graph    [spatial] Index of [point] Points
//	         ↓
//	    [io] JSON/GeoJSON, [render/dot] DOT/SVG
//
// # Quick start
//
//	chain := merge.NewChain(merge.Rule{
//	    Name:   "same-level",
//	    Match:  merge.AttributeMatches("Z_LEVEL"),
//	    Action: merge.KeepOld,
//	})
//	g := network.New(nil)
//	b := topology.New(g, topology.Options{Chain: chain})
//	src, _ := geojson.NewSource(file, geojson.Options{})
//	if err := b.Run(ctx, src); err != nil {
//	    log.Fatal(err)
//	}
//
// [pipeline.Runner] wraps the same steps with caching for the CLI and the
// HTTP server.
package pkg
