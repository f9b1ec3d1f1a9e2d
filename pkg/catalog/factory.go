package catalog

import (
	"reflect"

	"github.com/matzehuels/stowage/pkg/errors"
)

// RegisterFactory installs the default-value constructor for T and makes T
// resolvable. T may be a struct type or a pointer to one; either way the
// factory is used whenever the deserializer needs a fresh T.
//
//	catalog.RegisterFactory(c, func() (*Settings, error) { return NewSettings(), nil })
func RegisterFactory[T any](c *Catalog, f func() (T, error)) {
	t := reflect.TypeFor[T]()
	c.Learn(t)
	c.factories[t] = func() (reflect.Value, error) {
		v, err := f()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(&v).Elem(), nil
	}
}

// Constructible reports whether values of t can be created by [Catalog.New].
func Constructible(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return false
	case reflect.Pointer:
		return Constructible(t.Elem())
	}
	return true
}

// New returns a fresh default value of t. Structs and arrays are returned as
// a pointer so the caller can populate them; maps are returned made; slices
// and scalars are returned as a settable zero value.
//
// A registered factory for t or *t takes precedence over the zero value. An
// error is returned when t cannot be constructed or the factory fails.
func (c *Catalog) New(t reflect.Type) (reflect.Value, error) {
	if !Constructible(t) {
		return reflect.Value{}, errors.New(errors.ErrCodeUnsupported, "type %s is not constructible", t)
	}

	if f, ok := c.factories[t]; ok {
		v, err := f()
		if err != nil {
			return reflect.Value{}, errors.Wrap(errors.ErrCodeInternal, err, "factory for %s", t)
		}
		return box(v, t), nil
	}
	if f, ok := c.factories[reflect.PointerTo(t)]; ok {
		v, err := f()
		if err != nil {
			return reflect.Value{}, errors.Wrap(errors.ErrCodeInternal, err, "factory for %s", t)
		}
		if v.IsNil() {
			return reflect.Value{}, errors.New(errors.ErrCodeInternal, "factory for %s returned nil", t)
		}
		if t.Kind() == reflect.Struct || t.Kind() == reflect.Array {
			return v, nil
		}
		return box(v.Elem(), t), nil
	}

	switch t.Kind() {
	case reflect.Map:
		return reflect.MakeMap(t), nil
	case reflect.Struct, reflect.Array:
		return reflect.New(t), nil
	}
	return reflect.New(t).Elem(), nil
}

// box shapes a factory result the way New returns zero values of the same kind.
func box(v reflect.Value, t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Struct, reflect.Array:
		if v.Kind() == reflect.Pointer {
			return v
		}
		p := reflect.New(t)
		p.Elem().Set(v)
		return p
	case reflect.Map:
		if v.IsNil() {
			return reflect.MakeMap(t)
		}
	}
	return v
}
