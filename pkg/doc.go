// Package pkg provides the core libraries for Logofield splash layouts.
//
// # Overview
//
// Logofield scatters the logos of a portal's member companies around a splash
// page while keeping the central content region free. The pkg directory is
// organized into these areas:
//
//  1. [placement] - The placement engine (random search, fallback slots, circle)
//  2. [layout] - The serializable layout document and its entity inputs
//  3. [integrations] - Entity sources (portal API, static lists, placeholders)
//  4. [pipeline] - Orchestration (fetch → layout → render) with caching and pins
//  5. [render] - Output formats (SVG, HTML, JSON, DOT, PNG, PDF)
//
// # Architecture
//
// The typical data flow:
//
//	Tenant portal / static list
//	         ↓
//	    [integrations] (fetch entities)
//	         ↓
//	    [placement] (non-overlapping positions)
//	         ↓
//	    [layout] (document with markers and reproduction parameters)
//	         ↓
//	    [render/sink] (SVG, HTML, JSON, DOT, PNG, PDF)
//
// # Quick Start
//
//	p := placement.Place(12, placement.NewRand(42), nil) // nil: all defaults
//	for i, pos := range p.Positions {
//	    fmt.Printf("%d: left=%.1f%% top=%.1f%% (%s)\n", i, pos.Left, pos.Top, p.Tiers[i])
//	}
//
// # Supporting Packages
//
// [cache] - Entity, layout and artifact caching with null, memory, file and
// Redis backends.
//
// [storage] - Pinned layouts with memory, file and MongoDB backends.
//
// [observability] - Pipeline, cache and HTTP hooks; [observability/prom]
// exports them as Prometheus metrics.
//
// [errors] - Coded application errors shared by the CLI and HTTP API.
//
// [buildinfo] - Version information stamped at build time.
//
// [placement]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/placement
// [layout]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/layout
// [integrations]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/integrations
// [pipeline]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/cache
// [storage]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/storage
// [observability]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/apecglobal/logofield/pkg/buildinfo
package pkg
