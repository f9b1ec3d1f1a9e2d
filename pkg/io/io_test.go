package io

import (
	"bytes"
	goerrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/node"
)

func sampleTree() *node.Node {
	root := node.New("Settings")
	root.SetAttr("Ser.Ref", "1")
	root.SetAttr("Name", `a<b & "c"`)
	root.SetAttr("Motto", "line one\nline two")

	items := node.New("Ser.Items")
	items.SetAttr("Ser.Type", "HighScore")
	score := node.New("HighScore")
	score.SetAttr("Score", "10450")
	items.Add(score, node.New("Ser.Nil"))

	list := node.New("HighScore")
	list.SetAttr("Ser.Type", "[]HighScore")
	list.Add(items)

	marker := &node.Node{Name: "Ser.Ref", Text: "1"}
	return root.Add(
		node.New("HighScores").Add(list),
		node.New("Owner").Add(marker),
	)
}

func TestXMLRoundTrip(t *testing.T) {
	want := sampleTree()

	var buf bytes.Buffer
	if err := WriteXML(want, &buf); err != nil {
		t.Fatalf("WriteXML: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML header:\n%s", buf.String())
	}

	got, err := ReadXML(&buf)
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXMLIndents(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXML(node.New("A").Add(node.New("B")), &buf); err != nil {
		t.Fatalf("WriteXML: %v", err)
	}
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<A>\n  <B></B>\n</A>\n"
	if buf.String() != want {
		t.Errorf("WriteXML =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteXMLRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		root *node.Node
	}{
		{"nil root", nil},
		{"element", node.New("1st")},
		{"nested element", node.New("ok").Add(node.New("has space"))},
		{"attribute", func() *node.Node {
			n := node.New("ok")
			n.SetAttr("xmlns", "x")
			return n
		}()},
		{"control character in attribute", func() *node.Node {
			n := node.New("ok")
			n.SetAttr("Name", "bell\x07")
			return n
		}()},
		{"invalid utf-8 in text", &node.Node{Name: "ok", Text: "\xff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := WriteXML(tt.root, &bytes.Buffer{}); err == nil {
				t.Error("WriteXML succeeded, want error")
			}
		})
	}

	err := WriteXML(node.New("1st"), &bytes.Buffer{})
	if !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidName)
	}
	err = WriteXML(&node.Node{Name: "ok", Text: "a\x00b"}, &bytes.Buffer{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestReadXMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"declaration only", `<?xml version="1.0"?>`},
		{"unclosed", `<A><B></A>`},
		{"two roots", `<A/><B/>`},
		{"not xml", `{"name": "A"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadXML(strings.NewReader(tt.doc)); err == nil {
				t.Error("ReadXML succeeded, want error")
			}
		})
	}
}

func TestReadXMLIgnoresComments(t *testing.T) {
	doc := `<?xml version="1.0"?>
<!-- saved by hand -->
<A x="1"><!-- note --><B/></A>
`
	got, err := ReadXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	want := &node.Node{Name: "A", Attrs: []node.Attr{{Name: "x", Value: "1"}}, Children: []*node.Node{{Name: "B"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExportImportXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farkle.xml")
	want := sampleTree()

	if err := ExportXML(want, path); err != nil {
		t.Fatalf("ExportXML: %v", err)
	}
	got, err := ImportXML(path)
	if err != nil {
		t.Fatalf("ImportXML: %v", err)
	}
	if !node.Equal(want, got) {
		t.Error("imported tree differs from exported tree")
	}

	if _, err := ImportXML(filepath.Join(t.TempDir(), "missing.xml")); !goerrors.Is(err, fs.ErrNotExist) {
		t.Errorf("ImportXML(missing) error = %v, want not-exist", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	want := sampleTree()

	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "Settings"`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadJSON(strings.NewReader(`{}`)); err == nil {
		t.Error("ReadJSON({}) succeeded, want error")
	}
}
