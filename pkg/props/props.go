// Package props decides which fields of a struct take part in serialization.
//
// A field is eligible when it is exported, reachable without crossing a
// pointer, not tagged `ser:"-"`, and its type is one the engine can rebuild:
// a scalar (per the codec), a struct, a pointer, an interface, or a slice,
// array or map. Fields of function, channel and unsafe pointer type never
// participate.
//
// Types narrow their eligible set by implementing [Selective], and observe
// assignments during deserialization by implementing [Setter].
package props

import (
	"reflect"
	"slices"

	"github.com/matzehuels/stowage/pkg/codec"
)

// Tag is the struct tag key consulted for exclusions.
const Tag = "ser"

// Property is one eligible struct field.
type Property struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Selective is implemented by types that persist only some of their eligible
// fields. Names not eligible by the default rule are ignored.
type Selective interface {
	SerializationList() []string
}

// Setter is implemented by types that want to see each decoded field value
// before it is stored. Returning false makes the engine assign the field
// directly.
type Setter interface {
	SetProperty(name string, value any) bool
}

// Selector computes eligible properties.
type Selector struct {
	codec *codec.Codec
}

// NewSelector creates a selector that classifies scalars with c.
func NewSelector(c *codec.Codec) *Selector {
	return &Selector{codec: c}
}

// Eligible returns the eligible properties of a struct value (or pointer to
// one) in field order, narrowed by [Selective] when v implements it.
func (s *Selector) Eligible(v reflect.Value) []Property {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	all := s.Fields(v.Type())
	sel, ok := selective(v)
	if !ok || IsPairLike(v.Type()) {
		return all
	}
	allowed := sel.SerializationList()
	return slices.DeleteFunc(all, func(p Property) bool {
		return !slices.Contains(allowed, p.Name)
	})
}

// Fields returns the eligible properties of struct type t, ignoring [Selective].
// Pair-like types always report their Key and Value fields.
func (s *Selector) Fields(t reflect.Type) []Property {
	if t.Kind() != reflect.Struct {
		return nil
	}
	if IsPairLike(t) {
		k, _ := t.FieldByName("Key")
		v, _ := t.FieldByName("Value")
		return []Property{
			{Name: "Key", Index: k.Index, Type: k.Type},
			{Name: "Value", Index: v.Index, Type: v.Type},
		}
	}

	var out []Property
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || !s.reachable(t, f.Index) {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			// Promoted fields are listed on their own.
			continue
		}
		if !s.EligibleType(f.Type) {
			continue
		}
		out = append(out, Property{Name: f.Name, Index: f.Index, Type: f.Type})
	}
	return out
}

// reachable reports whether the field at index can be read without crossing
// a pointer and without passing an excluded field.
func (s *Selector) reachable(t reflect.Type, index []int) bool {
	for i, x := range index {
		f := t.Field(x)
		if f.Tag.Get(Tag) == "-" {
			return false
		}
		if i < len(index)-1 {
			if f.Type.Kind() != reflect.Struct {
				return false
			}
			t = f.Type
		}
	}
	return true
}

// EligibleType reports whether fields of type t may participate.
func (s *Selector) EligibleType(t reflect.Type) bool {
	if s.codec.IsScalar(t) {
		return true
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Interface, reflect.Slice, reflect.Array, reflect.Map:
		return true
	case reflect.Pointer:
		k := t.Elem().Kind()
		return k != reflect.Func && k != reflect.Chan && k != reflect.UnsafePointer
	}
	return false
}

// Find returns the property with the given name.
func Find(props []Property, name string) (Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// IsPairLike reports whether t is a struct whose only fields are Key and Value.
func IsPairLike(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() != 2 {
		return false
	}
	k, okKey := t.FieldByName("Key")
	v, okValue := t.FieldByName("Value")
	return okKey && okValue && k.IsExported() && v.IsExported()
}

// selective finds a Selective implementation on struct value v. Struct values
// held by interfaces, map entries and roots passed by value are not
// addressable, so a pointer-receiver implementation is reached through a copy.
func selective(v reflect.Value) (Selective, bool) {
	if sel, ok := As[Selective](v); ok {
		return sel, true
	}
	if v.CanAddr() || !v.CanInterface() || !reflect.PointerTo(v.Type()).Implements(selectiveType) {
		return nil, false
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return As[Selective](p)
}

var selectiveType = reflect.TypeFor[Selective]()

// As returns v as an I, trying the value first and then its address.
func As[I any](v reflect.Value) (I, bool) {
	var zero I
	if !v.IsValid() {
		return zero, false
	}
	if v.CanInterface() {
		if i, ok := v.Interface().(I); ok {
			return i, true
		}
	}
	if v.CanAddr() && v.Addr().CanInterface() {
		if i, ok := v.Addr().Interface().(I); ok {
			return i, true
		}
	}
	return zero, false
}
