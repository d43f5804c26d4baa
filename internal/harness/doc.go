// Package harness runs relationship-resolution scenarios against a real
// store.
//
// A scenario is a YAML file describing a small multisite network (sites,
// posts with meta, terms, crossposts), the relationship configuration, and
// a list of field transforms with their expected output:
//
//	name: product-by-sku
//	description: Products resolve by SKU, other posts by crosspost.
//	config:
//	  relationships:
//	    post: [related_posts]
//	  secondary_keys:
//	    product: _sku
//	network:
//	  sites:
//	    - id: 1
//	      posts:
//	        - {id: 10, type: product, meta: {_sku: ABC}}
//	    - id: 2
//	      posts:
//	        - {id: 55, type: product, meta: {_sku: ABC}}
//	transforms:
//	  - key: related_posts
//	    value: "10"
//	    source: 1
//	    target: 2
//	    expect:
//	      output: "55"
//
// Every scenario runs in a fresh in-memory database. Each transform gets
// its own registry stack with the target active and the source below it,
// the state a crossposting request is in when a field filter fires.
//
// The resolver's collaborators are wrapped by a recorder, so the trace
// holds every registry move and read in the order the resolver made it.
// Traces are compared against golden files with goldie:
//
//	go test ./internal/harness -update
//
// regenerates testdata/golden.
package harness
