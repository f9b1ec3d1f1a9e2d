package io

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/node"
)

// ReadXML decodes an XML document from r into a node tree.
//
// Element names, attributes (in document order) and the trimmed text of each
// element are kept; comments, processing instructions and namespace prefixes
// are dropped. ReadXML returns an error if the document is malformed, empty,
// or has more than one root element.
//
// The returned tree is independent of r. ReadXML does not close r.
func ReadXML(r io.Reader) (*node.Node, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *node.Node
		stack []*node.Node
		text  []strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "document has more than one root element")
			}
			n := node.New(t.Name.Local)
			for _, a := range t.Attr {
				n.SetAttr(a.Name.Local, a.Value)
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Add(n)
			} else {
				root = n
			}
			stack = append(stack, n)
			text = append(text, strings.Builder{})

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}

		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}

	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root element")
	}
	return root, nil
}

// ImportXML reads an XML file at path and returns the decoded node tree.
//
// ImportXML opens the file, decodes it using [ReadXML], and closes the file.
// The error wraps the underlying cause with the file path for context.
func ImportXML(path string) (*node.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	root, err := ReadXML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// ReadJSON decodes a node tree written by [WriteJSON].
func ReadJSON(r io.Reader) (*node.Node, error) {
	var data jsonNode
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root element")
	}
	return fromJSON(&data), nil
}

func fromJSON(j *jsonNode) *node.Node {
	n := &node.Node{Name: j.Name, Text: j.Text}
	for _, a := range j.Attrs {
		n.Attrs = append(n.Attrs, node.Attr{Name: a.Name, Value: a.Value})
	}
	for _, c := range j.Children {
		if c != nil {
			n.Children = append(n.Children, fromJSON(c))
		}
	}
	return n
}
