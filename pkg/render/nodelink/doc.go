// Package nodelink renders serialized node trees as node-link diagrams.
//
// # Overview
//
// Every node of the tree becomes a box and every parent/child relation an
// arrow. Reference markers are drawn as dashed arrows back to the node that
// produced the referenced object, so shared and cyclic objects are visible
// at a glance.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the scalar attributes.
//   - HideReserved: When true, the engine's own attributes are left out of
//     detailed labels.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. The DOT source from [ToDOT] can also be fed to external
// Graphviz tools.
package nodelink
