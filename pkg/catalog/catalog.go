// Package catalog maps Go types to the descriptors written into documents and
// resolves those descriptors back to types.
//
// Go cannot look a type up by name at run time, so a [Catalog] keeps a registry
// of the named types it has been shown. Types become known through [Catalog.Register],
// [Catalog.Learn] (which walks every type reachable from a root type), or
// [RegisterFactory]. Builtin kinds and a handful of standard library types are
// always known.
//
// Unnamed composite types never need registering: their descriptor carries a
// full type expression ("[]int", "map[string]Settings", "*Score") which is
// parsed and rebuilt with reflect. See [Catalog.Expr] for the grammar.
package catalog

import (
	"reflect"
	"strings"
	"time"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/node"
)

// Descriptor identifies a type inside a document.
type Descriptor struct {
	// LocalName is the bare element name: generic arguments stripped and
	// characters invalid in element names normalized.
	LocalName string

	// Package is set when the type's package differs from the catalog's
	// default package.
	Package string

	// FullName is the complete type expression, set for generic types,
	// unnamed composites and synthetic map entries.
	FullName string
}

// Factory constructs a default value for a type. The returned value has the
// registered type or a pointer to it.
type Factory func() (reflect.Value, error)

// Catalog resolves descriptors to types. It is not safe for concurrent use.
type Catalog struct {
	defaultPkg string
	types      map[string]reflect.Type
	factories  map[reflect.Type]Factory
}

// New creates a catalog whose unqualified names refer to defaultPkg (a Go
// import path, or "" for none).
func New(defaultPkg string) *Catalog {
	c := &Catalog{
		defaultPkg: defaultPkg,
		types:      make(map[string]reflect.Type),
		factories:  make(map[reflect.Type]Factory),
	}
	for _, t := range builtins {
		c.types[t.Name()] = t
	}
	c.Learn(reflect.TypeFor[time.Time]())
	c.Learn(reflect.TypeFor[time.Duration]())
	return c
}

var builtins = []reflect.Type{
	reflect.TypeFor[bool](),
	reflect.TypeFor[string](),
	reflect.TypeFor[int](),
	reflect.TypeFor[int8](),
	reflect.TypeFor[int16](),
	reflect.TypeFor[int32](),
	reflect.TypeFor[int64](),
	reflect.TypeFor[uint](),
	reflect.TypeFor[uint8](),
	reflect.TypeFor[uint16](),
	reflect.TypeFor[uint32](),
	reflect.TypeFor[uint64](),
	reflect.TypeFor[float32](),
	reflect.TypeFor[float64](),
	reflect.TypeFor[complex64](),
	reflect.TypeFor[complex128](),
}

// DefaultPackage returns the package unqualified names resolve against.
func (c *Catalog) DefaultPackage() string {
	return c.defaultPkg
}

// Register makes the dynamic types of values, and every type reachable from
// them, resolvable.
func (c *Catalog) Register(values ...any) {
	for _, v := range values {
		if v != nil {
			c.Learn(reflect.TypeOf(v))
		}
	}
}

// Learn makes t and every named type reachable from it through pointers,
// elements, map keys and exported struct fields resolvable.
func (c *Catalog) Learn(t reflect.Type) {
	c.learn(t, make(map[reflect.Type]bool))
}

func (c *Catalog) learn(t reflect.Type, seen map[reflect.Type]bool) {
	if t == nil || seen[t] {
		return
	}
	seen[t] = true

	if t.Name() != "" && t.PkgPath() != "" {
		c.types[key(t.PkgPath(), t.Name())] = t
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		c.learn(t.Elem(), seen)
	case reflect.Map:
		c.learn(t.Key(), seen)
		c.learn(t.Elem(), seen)
	case reflect.Struct:
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() || f.Anonymous {
				c.learn(f.Type, seen)
			}
		}
	}
}

// Known reports whether a named type can be resolved by name.
func (c *Catalog) Known(t reflect.Type) bool {
	if t.Name() == "" {
		return false
	}
	_, ok := c.types[key(t.PkgPath(), t.Name())]
	return ok
}

// Describe returns the descriptor written for values of type t.
func (c *Catalog) Describe(t reflect.Type) Descriptor {
	d := Descriptor{LocalName: localName(t)}
	if t.Name() != "" && t.PkgPath() != "" && t.PkgPath() != c.defaultPkg {
		d.Package = t.PkgPath()
	}
	if t.Name() == "" || strings.Contains(t.Name(), "[") {
		d.FullName = c.Expr(t)
	}
	return d
}

// Apply writes the descriptor attributes onto n.
func (d Descriptor) Apply(n *node.Node) {
	if d.Package != "" {
		n.SetAttr(node.AttrPackage, d.Package)
	}
	if d.FullName != "" {
		n.SetAttr(node.AttrType, d.FullName)
	}
}

// DescriptorOf reads the descriptor attributes of n.
func DescriptorOf(n *node.Node) Descriptor {
	d := Descriptor{LocalName: n.Name}
	d.Package, _ = n.Attr(node.AttrPackage)
	d.FullName, _ = n.Attr(node.AttrType)
	return d
}

// Resolve returns the type a descriptor names. A full type expression takes
// precedence; otherwise the local name is looked up in the qualifying package,
// then the default package, then among the builtin types.
func (c *Catalog) Resolve(d Descriptor) (reflect.Type, error) {
	if d.FullName != "" {
		return c.Parse(d.FullName)
	}
	if d.Package != "" {
		if t, ok := c.types[key(d.Package, d.LocalName)]; ok {
			return t, nil
		}
		return nil, errors.New(errors.ErrCodeUnknownType, "unknown type %s.%s", d.Package, d.LocalName)
	}
	if t, ok := c.lookup(d.LocalName); ok {
		return t, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownType, "unknown type %s", d.LocalName)
}

// lookup finds an unqualified name in the default package or among builtins.
func (c *Catalog) lookup(name string) (reflect.Type, bool) {
	if c.defaultPkg != "" {
		if t, ok := c.types[key(c.defaultPkg, name)]; ok {
			return t, true
		}
	}
	t, ok := c.types[name]
	return t, ok
}

func key(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// localName strips pointer, slice and array decorations and generic arguments.
func localName(t reflect.Type) string {
	for t.Name() == "" {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
			continue
		case reflect.Map:
			return "map"
		case reflect.Interface:
			return "any"
		case reflect.Struct:
			if isEntry(t) {
				return "Pair"
			}
			return "struct"
		}
		return node.ElementName(t.Kind().String())
	}
	name, _, _ := strings.Cut(t.Name(), "[")
	return node.ElementName(name)
}
