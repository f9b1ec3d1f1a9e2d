// Package pkg provides the libraries behind stowage, a persistence layer that
// stores Go object graphs as XML documents.
//
// # Overview
//
// Stowage turns a value, including everything it points to, into a tree of
// named nodes and writes that tree as XML. Reading reverses both steps and
// hands back an equivalent value. Shared pointers stay shared and cycles
// survive the round trip. The pkg directory is organized into four areas:
//
//  1. [node] and [io] - The document model and its XML and JSON forms
//  2. [serialization] - Object graphs to node trees and back
//  3. [session] - File persistence with a fallback location
//  4. [render/nodelink] - Diagrams of stored documents
//
// # Architecture
//
// The data flow of a save:
//
//	Go value
//	    ↓
//	[serialization] (walk with reflection, assign reference ids)
//	    ↓
//	[node] tree
//	    ↓
//	[io] (encode as indented XML)
//	    ↓
//	file, or the fallback copy in the temp directory
//
// Loading runs the same steps backwards, with [catalog] resolving element
// names to Go types.
//
// # Quick Start
//
// Persist a settings object:
//
//	import (
//	    "github.com/matzehuels/stowage/pkg/catalog"
//	    "github.com/matzehuels/stowage/pkg/session"
//	)
//
//	c := catalog.New("example.com/game")
//	c.Register(Settings{})
//
//	s := session.New(session.WithCatalog(c))
//	s.Initialize("settings.xml")
//	s.SaveObject(&Settings{Threshold: 300})
//
//	settings, err := session.Load(s, NewSettings())
//
// # Main Packages
//
// [node] - The in-memory document: elements with ordered attributes, text
// and children, plus the reserved names the serializer writes.
//
// [errors] - Coded errors shared by every package, and name and path
// validation.
//
// [codec] - Text forms of scalar values: numbers, strings, time values,
// byte slices, UUIDs and registered enums.
//
// [props] - Which struct fields are persisted, and the Setter hook objects
// implement to intercept assignments.
//
// [catalog] - Maps Go types to element names and back. Generic and
// collection types are written as type expressions such as
// "map[string][]Score".
//
// [refcache] - Per-call identity tables that turn repeated pointers into
// reference markers and resolve them again on read.
//
// [serialization] - The Serializer and Deserializer.
//
// [io] - XML import and export, plus a JSON dump of the same tree.
//
// [session] - Binds a file path to a current object. Saves are atomic and
// fall back to the temp directory when the primary location fails.
//
// [observability] - Hooks for serialization and store events.
//
// [render/nodelink] - Graphviz DOT output with reference edges, and SVG
// rendering.
//
// [cache] - On-disk cache for rendered SVGs.
//
// [buildinfo] - Version information.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test -short ./...                 # Skip Graphviz rendering
//	go test -run Example ./pkg/...       # Examples only
//
// [node]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/node
// [io]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/errors
// [codec]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/codec
// [props]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/props
// [catalog]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/catalog
// [refcache]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/refcache
// [serialization]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/serialization
// [session]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/cache
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stowage/pkg/buildinfo
package pkg
