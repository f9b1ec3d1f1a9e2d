package serialization

import (
	"reflect"
	"strings"
	"time"

	"github.com/matzehuels/stowage/pkg/catalog"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/node"
	"github.com/matzehuels/stowage/pkg/observability"
	"github.com/matzehuels/stowage/pkg/props"
	"github.com/matzehuels/stowage/pkg/refcache"
)

// Deserializer rebuilds values from node trees.
type Deserializer struct {
	config
}

// NewDeserializer creates a deserializer.
func NewDeserializer(opts ...Option) *Deserializer {
	return &Deserializer{config: newConfig(opts)}
}

// Deserialize rebuilds the value described by n. It returns nil when n is nil
// or the root object could not be constructed.
//
// Unknown element types and dangling references are errors. Every other
// mismatch is recovered locally: unknown properties are skipped, values that
// do not fit their destination are left unset, and objects that cannot be
// constructed are omitted together with their subtree.
func (d *Deserializer) Deserialize(n *node.Node) (any, error) {
	v, err := d.DeserializeAs(n, nil)
	if err != nil || !v.IsValid() {
		return nil, err
	}
	return v.Interface(), nil
}

// DeserializeAs is like [Deserializer.Deserialize] but adapts the result to t.
// A nil t leaves the result as materialized. A result that cannot be adapted
// is reported as absent (the invalid Value). Every type reachable from t is
// learned by the catalog first, so generic instantiations t mentions resolve
// without registration.
func (d *Deserializer) DeserializeAs(n *node.Node, t reflect.Type) (reflect.Value, error) {
	if n == nil {
		return reflect.Value{}, nil
	}
	if t != nil {
		d.catalog.Learn(t)
	}

	start := time.Now()
	observability.Engine().OnDeserializeStart(n.Name, n.Count())

	dec := &decoder{Deserializer: d, refs: refcache.NewDecoding()}
	v, err := dec.value(n)

	observability.Engine().OnDeserializeComplete(n.Name, dec.objects, time.Since(start), err)
	if err != nil {
		return reflect.Value{}, err
	}
	d.logger.Debug("deserialized", "root", n.Name, "objects", dec.objects)

	if v.IsValid() && t != nil {
		av, ok := adapt(v, t)
		if !ok {
			d.logger.Debug("root does not fit", "got", v.Type(), "want", t)
			return reflect.Value{}, nil
		}
		v = av
	}
	return v, nil
}

// decoder holds the state of one Deserialize call.
type decoder struct {
	*Deserializer
	refs    *refcache.Decoding
	objects int
}

func (dec *decoder) value(n *node.Node) (reflect.Value, error) {
	if n == nil {
		return reflect.Value{}, nil
	}
	switch n.Name {
	case node.ElemNil:
		return reflect.Value{}, nil
	case node.AttrRef:
		id := strings.TrimSpace(n.Text)
		v, ok := dec.refs.Lookup(id)
		if !ok {
			return reflect.Value{}, errors.New(errors.ErrCodeDanglingReference, "reference %q precedes its object", id)
		}
		return v, nil
	}

	t, err := dec.catalog.Resolve(catalog.DescriptorOf(n))
	if err != nil {
		return reflect.Value{}, err
	}

	if text, ok := n.Attr(node.AttrValue); ok {
		v, err := dec.codec.Parse(text, t)
		if err != nil {
			dec.logger.Debug("skipping malformed scalar", "type", t, "err", err)
			return reflect.Value{}, nil
		}
		return v, nil
	}

	if items := n.Child(node.ElemItems); items != nil {
		return dec.collection(n, t, items)
	}
	if props.IsPairLike(t) {
		return dec.pair(n, t)
	}
	obj, err := dec.object(n, t)
	if err != nil || !obj.IsValid() {
		return obj, err
	}
	if byValue, _ := n.Attr(node.AttrByValue); byValue == "true" && obj.Kind() == reflect.Pointer && obj.Elem().Kind() == reflect.Struct {
		return obj.Elem(), nil
	}
	return obj, nil
}

// register records a freshly constructed object under the node's reference id.
func (dec *decoder) register(n *node.Node, v reflect.Value) {
	dec.objects++
	if id, ok := n.Attr(node.AttrRef); ok {
		dec.refs.Register(id, v)
	}
}

// object constructs t, registers it, then populates it from n.
func (dec *decoder) object(n *node.Node, t reflect.Type) (reflect.Value, error) {
	obj, err := dec.catalog.New(t)
	if err != nil {
		dec.logger.Debug("omitting object", "type", t, "err", err)
		return reflect.Value{}, nil
	}
	dec.register(n, obj)

	target := obj
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return obj, nil
	}

	fields := dec.selector.Eligible(obj)
	for _, a := range n.Attrs {
		if node.Reserved(a.Name) {
			continue
		}
		p, ok := props.Find(fields, a.Name)
		if !ok {
			dec.logger.Debug("skipping unknown attribute", "type", t, "name", a.Name)
			continue
		}
		v, err := dec.codec.Parse(a.Value, p.Type)
		if err != nil {
			dec.logger.Debug("skipping malformed property", "type", t, "property", p.Name, "err", err)
			continue
		}
		dec.assign(obj, target, p, v)
	}

	for _, c := range n.Children {
		p, ok := props.Find(fields, c.Name)
		if !ok {
			dec.logger.Debug("skipping unknown element", "type", t, "name", c.Name)
			continue
		}
		v, err := dec.value(c.First())
		if err != nil {
			return reflect.Value{}, err
		}
		if v.IsValid() {
			dec.assign(obj, target, p, v)
		}
	}
	return obj, nil
}

// assign stores v into property p, through the object's Setter if it has one.
func (dec *decoder) assign(obj, target reflect.Value, p props.Property, v reflect.Value) {
	av, ok := adapt(v, p.Type)
	if !ok {
		dec.logger.Debug("value does not fit property", "property", p.Name, "got", v.Type(), "want", p.Type)
		return
	}
	if setter, ok := props.As[props.Setter](obj); ok && setter.SetProperty(p.Name, av.Interface()) {
		return
	}
	target.FieldByIndex(p.Index).Set(av)
}

// pair rebuilds a Key/Value type. Both components must be present. Like
// collections, a pair tagged with a reference id comes back as a pointer so
// every marker resolves to the same object.
func (dec *decoder) pair(n *node.Node, t reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(t)
	dec.register(n, ptr)
	p := ptr.Elem()
	for _, f := range dec.selector.Fields(t) {
		v, err := dec.member(n, f)
		if err != nil {
			return reflect.Value{}, err
		}
		av, ok := adapt(v, f.Type)
		if !ok {
			dec.logger.Debug("omitting incomplete pair", "type", t, "missing", f.Name)
			return reflect.Value{}, nil
		}
		p.FieldByIndex(f.Index).Set(av)
	}
	if n.HasAttr(node.AttrRef) {
		return ptr, nil
	}
	return p, nil
}

// member reads property f of n from an attribute or a wrapper element.
func (dec *decoder) member(n *node.Node, f props.Property) (reflect.Value, error) {
	if text, ok := n.Attr(f.Name); ok {
		v, err := dec.codec.Parse(text, f.Type)
		if err != nil {
			dec.logger.Debug("skipping malformed property", "property", f.Name, "err", err)
			return reflect.Value{}, nil
		}
		return v, nil
	}
	if c := n.Child(f.Name); c != nil {
		return dec.value(c.First())
	}
	return reflect.Value{}, nil
}

// collection rebuilds a slice, array or map from its contents marker. When t
// is not a collection the items come back as a plain slice of the element
// type, which may not fit the destination.
func (dec *decoder) collection(n *node.Node, t reflect.Type, items *node.Node) (reflect.Value, error) {
	elem := anyType
	if expr, ok := items.Attr(node.AttrType); ok {
		var err error
		if elem, err = dec.catalog.Parse(expr); err != nil {
			return reflect.Value{}, err
		}
	}

	switch t.Kind() {
	case reflect.Map:
		m, err := dec.catalog.New(t)
		if err != nil {
			dec.logger.Debug("omitting map", "type", t, "err", err)
			return reflect.Value{}, nil
		}
		// Entries may refer back to the map itself.
		dec.register(n, m)
		if err := dec.fillMap(m, items); err != nil {
			return reflect.Value{}, err
		}
		return m, nil

	case reflect.Slice, reflect.Array:
		p := reflect.New(t)
		dec.register(n, p)
		if err := dec.fillList(p.Elem(), items); err != nil {
			return reflect.Value{}, err
		}
		if n.HasAttr(node.AttrRef) {
			return p, nil
		}
		return p.Elem(), nil
	}

	dec.logger.Debug("returning raw items", "type", t, "elem", elem)
	raw := reflect.New(reflect.SliceOf(elem)).Elem()
	if err := dec.fillList(raw, items); err != nil {
		return reflect.Value{}, err
	}
	return raw, nil
}

// fillList appends (slices) or stores by index (arrays) each item.
func (dec *decoder) fillList(list reflect.Value, items *node.Node) error {
	t := list.Type()
	if t.Kind() == reflect.Slice {
		list.Set(reflect.MakeSlice(t, 0, len(items.Children)))
	}
	i := 0
	for _, c := range items.Children {
		v, err := dec.value(c)
		if err != nil {
			return err
		}
		item := reflect.Zero(t.Elem())
		if v.IsValid() {
			av, ok := adapt(v, t.Elem())
			if !ok {
				dec.logger.Debug("skipping item", "got", v.Type(), "want", t.Elem())
				continue
			}
			item = av
		}
		if t.Kind() == reflect.Array {
			if i >= t.Len() {
				break
			}
			list.Index(i).Set(item)
		} else {
			list.Set(reflect.Append(list, item))
		}
		i++
	}
	return nil
}

// fillMap stores each Key/Value item of a map.
func (dec *decoder) fillMap(m reflect.Value, items *node.Node) error {
	t := m.Type()
	for _, c := range items.Children {
		v, err := dec.value(c)
		if err != nil {
			return err
		}
		for v.IsValid() && v.Kind() == reflect.Pointer {
			v = v.Elem()
		}
		if !v.IsValid() || !props.IsPairLike(v.Type()) {
			continue
		}
		k, okKey := adapt(v.FieldByName("Key"), t.Key())
		val, okValue := adapt(v.FieldByName("Value"), t.Elem())
		if !okKey || !okValue {
			dec.logger.Debug("skipping map entry", "map", t)
			continue
		}
		m.SetMapIndex(k, val)
	}
	return nil
}

var anyType = reflect.TypeFor[any]()

// adapt fits v to destination type t: directly, through a pointer in either
// direction, or by converting between slice or map types with the same shape.
func adapt(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	vt := v.Type()
	switch {
	case vt.AssignableTo(t):
		return v, true
	case vt.Kind() == reflect.Pointer && vt.Elem().AssignableTo(t):
		if v.IsNil() {
			return reflect.Value{}, false
		}
		return v.Elem(), true
	case t.Kind() == reflect.Pointer && vt.AssignableTo(t.Elem()):
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p, true
	case t.Kind() == reflect.Interface && reflect.PointerTo(vt).Implements(t):
		p := reflect.New(vt)
		p.Elem().Set(v)
		return p, true
	case vt.Kind() == t.Kind() && (t.Kind() == reflect.Slice || t.Kind() == reflect.Map) && vt.ConvertibleTo(t):
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}
