// Package codec converts scalar values to and from their attribute text.
//
// A scalar type is one with a complete string round trip: the Go basic kinds,
// byte slices, registered enums, and any type whose value implements
// [encoding.TextMarshaler] while its pointer implements
// [encoding.TextUnmarshaler] (time.Time, uuid.UUID, net/netip addresses, ...).
// Scalars are stored as a single attribute and never recursed into.
//
// Enums are named integer types with a String method. Registering one with
// [RegisterEnum] makes it format by name and parse from either the name or
// the number:
//
//	type Mode int
//	func (m Mode) String() string { ... }
//
//	c := codec.New()
//	codec.RegisterEnum(c, ModeEasy, ModeHard)
package codec

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"

	"github.com/matzehuels/stowage/pkg/node"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	bytesType           = reflect.TypeFor[[]byte]()
)

// Integer is the constraint satisfied by enum types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Codec formats and parses scalar values. The zero value is not usable; use [New].
type Codec struct {
	enums map[reflect.Type]*enumTable
}

type enumTable struct {
	byName map[string]reflect.Value
	names  map[int64]string
}

// New creates a codec with no registered enums.
func New() *Codec {
	return &Codec{enums: make(map[reflect.Type]*enumTable)}
}

// RegisterEnum records the named values of an enum type. Registering the same
// type again adds to its table.
func RegisterEnum[T interface {
	Integer
	fmt.Stringer
}](c *Codec, values ...T) {
	t := reflect.TypeFor[T]()
	table, ok := c.enums[t]
	if !ok {
		table = &enumTable{byName: make(map[string]reflect.Value), names: make(map[int64]string)}
		c.enums[t] = table
	}
	for _, v := range values {
		rv := reflect.ValueOf(v)
		table.byName[v.String()] = rv
		table.names[intValue(rv)] = v.String()
	}
}

// IsEnum reports whether t was registered with [RegisterEnum].
func (c *Codec) IsEnum(t reflect.Type) bool {
	_, ok := c.enums[t]
	return ok
}

// IsScalar reports whether values of t are stored as a single string.
func (c *Codec) IsScalar(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if c.IsEnum(t) || hasTextRoundTrip(t) || t == bytesType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8 && t.ConvertibleTo(bytesType)
	}
	return false
}

// hasTextRoundTrip reports whether T marshals to text and *T unmarshals from it.
func hasTextRoundTrip(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	marshals := t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
	return marshals && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// Format returns the attribute text for a scalar value. Text that XML cannot
// carry, such as control characters or invalid UTF-8, is an error rather than
// being replaced on write.
func (c *Codec) Format(v reflect.Value) (string, error) {
	text, err := c.format(v)
	if err != nil {
		return "", err
	}
	if !node.ValidText(text) {
		return "", fmt.Errorf("format %s: %q holds characters XML cannot represent", v.Type(), text)
	}
	return text, nil
}

func (c *Codec) format(v reflect.Value) (string, error) {
	if !v.IsValid() {
		return "", fmt.Errorf("format: invalid value")
	}
	t := v.Type()

	if table, ok := c.enums[t]; ok {
		if name, ok := table.names[intValue(v)]; ok {
			return name, nil
		}
		return strconv.FormatInt(intValue(v), 10), nil
	}

	if hasTextRoundTrip(t) {
		tm, ok := v.Interface().(encoding.TextMarshaler)
		if !ok {
			// Pointer receiver: copy into an addressable value.
			p := reflect.New(t)
			p.Elem().Set(v)
			tm = p.Interface().(encoding.TextMarshaler)
		}
		text, err := tm.MarshalText()
		if err != nil {
			return "", fmt.Errorf("format %s: %w", t, err)
		}
		return string(text), nil
	}

	switch t.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64), nil
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128), nil
	case reflect.Slice:
		if c.IsScalar(t) {
			return base64.StdEncoding.EncodeToString(v.Bytes()), nil
		}
	}
	return "", fmt.Errorf("format: %s is not a scalar type", t)
}

// Parse converts attribute text back into a value of type t.
//
// The type's own parser is used when it has one (UnmarshalText, or strconv for
// the basic kinds); registered enums parse by name; any other type receives
// the text unchanged. The returned value is not necessarily assignable to t
// in that last case, and callers must check before assigning.
func (c *Codec) Parse(text string, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.ValueOf(text), nil
	}

	if hasTextRoundTrip(t) {
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, fmt.Errorf("parse %s: %w", t, err)
		}
		return p.Elem(), nil
	}

	if table, ok := c.enums[t]; ok {
		if v, ok := table.byName[text]; ok {
			return v, nil
		}
		return parseBasic(text, t)
	}

	if c.IsScalar(t) {
		return parseBasic(text, t)
	}
	return reflect.ValueOf(text), nil
}

func parseBasic(text string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %s: %w", t, err)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %s: %w", t, err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %s: %w", t, err)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %s: %w", t, err)
		}
		v.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		x, err := strconv.ParseComplex(text, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %s: %w", t, err)
		}
		v.SetComplex(x)
	case reflect.Slice:
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("parse %s: %w", t, err)
		}
		v.SetBytes(b)
	default:
		return reflect.Value{}, fmt.Errorf("parse: %s is not a scalar type", t)
	}
	return v, nil
}

func intValue(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}
