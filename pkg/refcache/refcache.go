// Package refcache tracks object identity within a single serialize or
// deserialize call.
//
// [Encoding] maps identities to the nodes that first produced them and hands
// out reference ids lazily: an object seen once never consumes an id, and the
// producing node is tagged with [node.AttrRef] only when a second visit needs
// it. [Decoding] maps those ids back to materialized objects.
//
// Pointers, maps and non-empty slices carry identity. A slice is identified by
// its first element and its length, so two slices over the same array only
// share identity when they also see the same elements. Pointers to zero-size
// values and slices of them are not tracked since the runtime may give
// distinct zero-size objects one address.
//
// A cache belongs to exactly one top-level call and is discarded afterwards.
package refcache

import (
	"reflect"
	"strconv"

	"github.com/matzehuels/stowage/pkg/node"
)

type identity struct {
	typ  reflect.Type
	addr uintptr
	len  int
}

type entry struct {
	id   int
	node *node.Node
}

// Encoding is the serialize-side cache.
type Encoding struct {
	entries map[identity]*entry
	next    int
}

// NewEncoding creates an empty serialize-side cache.
func NewEncoding() *Encoding {
	return &Encoding{entries: make(map[identity]*entry)}
}

// Trackable reports whether v carries identity.
func Trackable(v reflect.Value) bool {
	_, ok := identityOf(v)
	return ok
}

func identityOf(v reflect.Value) (identity, bool) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || v.Type().Elem().Size() == 0 {
			return identity{}, false
		}
	case reflect.Map:
		if v.IsNil() {
			return identity{}, false
		}
	case reflect.Slice:
		if v.Len() == 0 || v.Type().Elem().Size() == 0 {
			return identity{}, false
		}
		return identity{typ: v.Type(), addr: v.Pointer(), len: v.Len()}, true
	default:
		return identity{}, false
	}
	return identity{typ: v.Type(), addr: v.Pointer()}, true
}

// Lookup returns the reference id of an object already registered in this
// call, assigning one and tagging the producing node on first use.
func (e *Encoding) Lookup(v reflect.Value) (int, bool) {
	key, ok := identityOf(v)
	if !ok {
		return 0, false
	}
	ent, ok := e.entries[key]
	if !ok {
		return 0, false
	}
	if ent.id == 0 {
		e.next++
		ent.id = e.next
		ent.node.SetAttr(node.AttrRef, strconv.Itoa(ent.id))
	}
	return ent.id, true
}

// Register records n as the node produced for v. Untrackable values are ignored.
func (e *Encoding) Register(v reflect.Value, n *node.Node) {
	if key, ok := identityOf(v); ok {
		e.entries[key] = &entry{node: n}
	}
}

// Len returns the number of reference ids handed out.
func (e *Encoding) Len() int {
	return e.next
}

// Marker returns a reference-marker node for id.
func Marker(id int) *node.Node {
	n := node.New(node.AttrRef)
	n.Text = strconv.Itoa(id)
	return n
}

// Decoding is the deserialize-side cache.
type Decoding struct {
	objects map[string]reflect.Value
}

// NewDecoding creates an empty deserialize-side cache.
func NewDecoding() *Decoding {
	return &Decoding{objects: make(map[string]reflect.Value)}
}

// Lookup returns the object registered under id.
func (d *Decoding) Lookup(id string) (reflect.Value, bool) {
	v, ok := d.objects[id]
	return v, ok
}

// Register records v as the object for id. Empty ids are ignored.
func (d *Decoding) Register(id string, v reflect.Value) {
	if id != "" {
		d.objects[id] = v
	}
}

// Len returns the number of registered objects.
func (d *Decoding) Len() int {
	return len(d.objects)
}
