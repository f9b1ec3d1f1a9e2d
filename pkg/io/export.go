package io

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/node"
)

// WriteXML encodes a node tree as an indented XML document and writes it to w.
// The output can be re-read with [ReadXML].
func WriteXML(root *node.Node, w io.Writer) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write an empty document")
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := writeElement(enc, root); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeElement(enc *xml.Encoder, n *node.Node) error {
	if err := errors.ValidateElementName(n.Name); err != nil {
		return err
	}
	start := xml.StartElement{Name: xml.Name{Local: n.Name}}
	for _, a := range n.Attrs {
		if err := errors.ValidateElementName(a.Name); err != nil {
			return fmt.Errorf("attribute of %s: %w", n.Name, err)
		}
		if !node.ValidText(a.Value) {
			return errors.New(errors.ErrCodeInvalidInput, "attribute %s of %s holds characters XML cannot represent", a.Name, n.Name)
		}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}

	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("encode %s: %w", n.Name, err)
	}
	if n.Text != "" {
		if !node.ValidText(n.Text) {
			return errors.New(errors.ErrCodeInvalidInput, "text of %s holds characters XML cannot represent", n.Name)
		}
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return fmt.Errorf("encode %s text: %w", n.Name, err)
		}
	}
	for _, c := range n.Children {
		if err := writeElement(enc, c); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("encode %s: %w", n.Name, err)
	}
	return nil
}

// ExportXML writes a node tree to an XML file at path.
// This is a convenience wrapper around [WriteXML] for file-based output.
func ExportXML(root *node.Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteXML(root, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type jsonNode struct {
	Name     string      `json:"name"`
	Attrs    []jsonAttr  `json:"attrs,omitempty"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonAttr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func toJSON(n *node.Node) *jsonNode {
	out := &jsonNode{Name: n.Name, Text: n.Text}
	for _, a := range n.Attrs {
		out.Attrs = append(out.Attrs, jsonAttr{Name: a.Name, Value: a.Value})
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toJSON(c))
	}
	return out
}

// WriteJSON encodes a node tree as indented JSON and writes it to w.
// Attributes are written as an ordered list so the output can be re-read
// with [ReadJSON] without losing attribute order.
func WriteJSON(root *node.Node, w io.Writer) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write an empty document")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
