package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stowage/pkg/node"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes attributes in node labels.
	// When false, only the element name is shown.
	Detailed bool

	// HideReserved drops reserved engine attributes from detailed labels.
	HideReserved bool
}

// refEdge links a reference marker to the id it names.
type refEdge struct {
	from, ref string
}

// ToDOT converts a node tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Container elements ([node.ElemItems]) are drawn with a dashed outline and
// reference markers with grey fill; each marker gets a dashed edge to the
// node carrying the matching reference id.
func ToDOT(root *node.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make(map[*node.Node]string)
	producers := make(map[string]string)
	var edges []string
	var refs []refEdge

	var visit func(n *node.Node, parent string)
	visit = func(n *node.Node, parent string) {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		if ref, ok := n.Attr(node.AttrRef); ok {
			producers[ref] = id
		}

		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(n, fmtLabel(n, opts)), ", "))
		if parent != "" {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", parent, id))
		}
		if n.Name == node.AttrRef {
			refs = append(refs, refEdge{from: id, ref: strings.TrimSpace(n.Text)})
		}
		for _, c := range n.Children {
			visit(c, id)
		}
	}
	if root != nil {
		visit(root, "")
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	for _, r := range refs {
		if target, ok := producers[r.ref]; ok {
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed, color=grey40, constraint=false];\n", r.from, target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *node.Node, opts Options) string {
	if n.Name == node.AttrRef {
		return "ref " + strings.TrimSpace(n.Text)
	}
	if !opts.Detailed {
		return n.Name
	}

	parts := []string{n.Name}
	for _, a := range n.Attrs {
		if opts.HideReserved && node.Reserved(a.Name) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", a.Name, a.Value))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *node.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Name {
	case node.ElemItems:
		attrs = append(attrs, "style=\"rounded,dashed\"")
	case node.AttrRef, node.ElemNil:
		attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing scales from its
// viewBox instead of Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
