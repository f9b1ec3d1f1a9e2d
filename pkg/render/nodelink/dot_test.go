package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/stowage/pkg/node"
)

// cyclic builds Loop(ref 1) -> Next -> marker(1).
func cyclic() *node.Node {
	root := node.New("Loop")
	root.SetAttr(node.AttrRef, "1")
	root.SetAttr("Name", "a")
	return root.Add(node.New("Next").Add(&node.Node{Name: node.AttrRef, Text: "1"}))
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(cyclic(), Options{})

	for _, want := range []string{
		"digraph G {",
		`n0 [label="Loop"];`,
		`n1 [label="Next"];`,
		`n2 [label="ref 1", style="rounded,filled", fillcolor=lightgrey, fontcolor=black];`,
		"n0 -> n1;",
		"n1 -> n2;",
		"n2 -> n0 [style=dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		want     string
		unwanted string
	}{
		{"all attributes", Options{Detailed: true}, `label="Loop\nSer.Ref: 1\nName: a"`, ""},
		{"hide reserved", Options{Detailed: true, HideReserved: true}, `label="Loop\nName: a"`, "Ser.Ref: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(cyclic(), tt.opts)
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %q:\n%s", tt.want, dot)
			}
			if tt.unwanted != "" && strings.Contains(dot, tt.unwanted) {
				t.Errorf("DOT contains %q:\n%s", tt.unwanted, dot)
			}
		})
	}
}

func TestToDOTDanglingMarker(t *testing.T) {
	root := node.New("A").Add(&node.Node{Name: node.AttrRef, Text: "9"})
	if dot := ToDOT(root, Options{}); strings.Contains(dot, "dashed, color") {
		t.Errorf("dangling marker produced a reference edge:\n%s", dot)
	}
	if dot := ToDOT(nil, Options{}); !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := normalizeViewBox(in)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if string(got) != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox was modified")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping graphviz rendering in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(cyclic(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Loop")) {
		t.Errorf("unexpected SVG output:\n%s", svg)
	}
}
