package serialization

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/matzehuels/stowage/pkg/catalog"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/node"
	"github.com/matzehuels/stowage/pkg/observability"
	"github.com/matzehuels/stowage/pkg/props"
	"github.com/matzehuels/stowage/pkg/refcache"
)

// Serializer converts values into node trees.
type Serializer struct {
	config
}

// NewSerializer creates a serializer.
func NewSerializer(opts ...Option) *Serializer {
	return &Serializer{config: newConfig(opts)}
}

// Serialize converts v into a node tree. A nil v yields a nil node. Values of
// a kind that cannot be represented (functions, channels) are rejected with
// [errors.ErrCodeUnsupported].
func (s *Serializer) Serialize(v any) (*node.Node, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	name := rv.Type().String()

	start := time.Now()
	observability.Engine().OnSerializeStart(name)

	if !s.representable(rv.Type()) {
		err := errors.New(errors.ErrCodeUnsupported, "cannot serialize values of type %s", rv.Type())
		observability.Engine().OnSerializeComplete(name, 0, 0, time.Since(start), err)
		return nil, err
	}

	enc := &encoder{Serializer: s, refs: refcache.NewEncoding(), learned: make(map[reflect.Type]bool)}
	// The root is read back as an interface, like any other boxed slot.
	root := enc.value(reflect.ValueOf(&v).Elem())

	observability.Engine().OnSerializeComplete(name, root.Count(), enc.refs.Len(), time.Since(start), nil)
	s.logger.Debug("serialized", "type", name, "nodes", root.Count(), "refs", enc.refs.Len())
	return root, nil
}

// representable reports whether a root of type t can produce a node.
func (s *Serializer) representable(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Uintptr:
		return false
	}
	return true
}

// encoder holds the state of one Serialize call.
type encoder struct {
	*Serializer
	refs    *refcache.Encoding
	learned map[reflect.Type]bool
}

// learn makes every type written by this call resolvable by readers sharing
// the catalog.
func (e *encoder) learn(t reflect.Type) {
	if !e.learned[t] {
		e.learned[t] = true
		e.catalog.Learn(t)
	}
}

// value serializes one object. It returns nil for nil and unrepresentable values.
func (e *encoder) value(v reflect.Value) *node.Node {
	boxed := v.Kind() == reflect.Interface
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}

	if id, ok := e.refs.Lookup(v); ok {
		return refcache.Marker(id)
	}

	ident := v
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	t := v.Type()
	if !e.representable(t) {
		return nil
	}
	e.learn(t)

	d := e.catalog.Describe(t)
	n := node.New(d.LocalName)
	d.Apply(n)

	if e.codec.IsScalar(t) {
		text, err := e.codec.Format(v)
		if err != nil {
			e.logger.Debug("skipping scalar", "type", t, "err", err)
			return nil
		}
		n.SetAttr(node.AttrValue, text)
		return n
	}

	// Register before recursing so cycles back to this object become markers.
	e.refs.Register(ident, n)

	switch t.Kind() {
	case reflect.Struct:
		if boxed && ident.Kind() == reflect.Struct && !props.IsPairLike(t) {
			n.SetAttr(node.AttrByValue, "true")
		}
		e.fields(n, v)
	case reflect.Slice, reflect.Array:
		e.items(n, v)
	case reflect.Map:
		e.entries(n, v)
	}
	return n
}

// fields writes the eligible properties of a struct.
func (e *encoder) fields(n *node.Node, v reflect.Value) {
	for _, p := range e.selector.Eligible(v) {
		fv := v.FieldByIndex(p.Index)
		if isNil(fv) {
			continue
		}
		if e.codec.IsScalar(p.Type) {
			text, err := e.codec.Format(fv)
			if err != nil {
				e.logger.Debug("skipping property", "property", p.Name, "err", err)
				continue
			}
			n.SetAttr(p.Name, text)
			continue
		}
		child := e.value(fv)
		if child == nil {
			continue
		}
		n.Add(node.New(p.Name).Add(child))
	}
}

// items writes the elements of a slice or array in order.
func (e *encoder) items(n *node.Node, v reflect.Value) {
	list := e.itemsNode(v.Type().Elem())
	for i := range v.Len() {
		list.Add(e.item(v.Index(i)))
	}
	n.Add(list)
}

// entries writes a map as a sequence of Key/Value pairs ordered by key.
func (e *encoder) entries(n *node.Node, v reflect.Value) {
	t := v.Type()
	entryType := entryTypeOf(t)
	list := e.itemsNode(entryType)

	type keyed struct {
		sort string
		key  reflect.Value
	}
	keys := make([]keyed, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, keyed{sort: e.sortKey(k), key: k})
	}
	slices.SortStableFunc(keys, func(a, b keyed) int { return cmp.Compare(a.sort, b.sort) })

	for _, k := range keys {
		pair := reflect.New(entryType).Elem()
		pair.Field(0).Set(k.key)
		pair.Field(1).Set(v.MapIndex(k.key))
		list.Add(e.item(pair))
	}
	n.Add(list)
}

// itemsNode creates the contents marker, which always names its element type.
func (e *encoder) itemsNode(elem reflect.Type) *node.Node {
	e.learn(elem)
	list := node.New(node.ElemItems)
	list.SetAttr(node.AttrType, e.catalog.Expr(elem))
	return list
}

func (e *encoder) item(v reflect.Value) *node.Node {
	if c := e.value(v); c != nil {
		return c
	}
	return node.New(node.ElemNil)
}

func (e *encoder) sortKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.IsValid() && e.codec.IsScalar(k.Type()) {
		if text, err := e.codec.Format(k); err == nil {
			return text
		}
	}
	return fmt.Sprint(k)
}

// entryTypeOf returns the pair type used to carry entries of map type t.
func entryTypeOf(t reflect.Type) reflect.Type {
	return catalog.EntryType(t.Key(), t.Elem())
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
