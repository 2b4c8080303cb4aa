// Package io provides JSON and GeoJSON serialization of topology networks.
//
// # JSON Format
//
// The native format round-trips through [WriteJSON] and [ReadJSON] and is
// what the cache stores:
//
//	{
//	  "nodes": [
//	    {"id": "n1", "pos": [0, 0], "attrs": {"ADDR_ST": "Main St"}},
//	    {"id": "n2", "pos": [10, 0]}
//	  ],
//	  "edges": [
//	    {"id": "e1", "from": "n1", "to": "n2", "directed": true,
//	     "attrs": {"length": 10}, "geometry": [[0, 0], [10, 0]]}
//	  ]
//	}
//
// Node "pos" is omitted for nodes at the origin, which read back as the
// origin anyway. Numbers in "attrs" decode as float64.
//
// # GeoJSON
//
// [WriteGeoJSON] emits a FeatureCollection for GIS tools: nodes become
// Points and edges LineStrings. Every feature carries an "element"
// property ("node" or "edge"); edges also carry "from", "to" and
// "directed". The GeoJSON output is export only.
package io
