package node

// Reserved attribute and element names. Their "Ser." prefix contains a dot,
// which can never appear in a Go identifier, so they cannot collide with
// property names.
const (
	// AttrPackage qualifies a type whose package differs from the reader's
	// default package.
	AttrPackage = "Ser.Package"

	// AttrType carries the full type expression of generic and unnamed
	// composite types (e.g. "[]int", "map[string]Settings").
	AttrType = "Ser.Type"

	// AttrValue holds the formatted text of a scalar node.
	AttrValue = "Ser.Value"

	// AttrRef tags a node that is referenced again later in the document.
	// It is also the element name of reference markers, whose text is the id.
	AttrRef = "Ser.Ref"

	// AttrByValue marks a struct that was held directly, not through a
	// pointer, by an interface slot or the document root.
	AttrByValue = "Ser.ByValue"

	// ElemItems marks the contents of an enumerable value.
	ElemItems = "Ser.Items"

	// ElemNil stands in for a nil collection item.
	ElemNil = "Ser.Nil"
)

// Reserved reports whether name is one of the engine's reserved names.
func Reserved(name string) bool {
	switch name {
	case AttrPackage, AttrType, AttrValue, AttrRef, AttrByValue, ElemItems, ElemNil:
		return true
	}
	return false
}
