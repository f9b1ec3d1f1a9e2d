package catalog

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/matzehuels/stowage/pkg/errors"
)

// Expr returns the type expression for t. The grammar is:
//
//	expr  = "*" expr
//	      | "[]" expr
//	      | "[" N "]" expr
//	      | "map[" expr "]" expr
//	      | "Pair[" expr "," expr "]"
//	      | "any"
//	      | named
//	named = [ pkgpath "." ] Name [ "[" args "]" ]
//
// Named types from the default package and builtin types are unqualified.
// Pair is the synthetic entry type used for map contents (see [EntryType]).
// Generic arguments are written as reflect spells them and are resolved
// verbatim, so generic instantiations must be registered.
func (c *Catalog) Expr(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" || t.PkgPath() == c.defaultPkg {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + c.Expr(t.Elem())
	case reflect.Slice:
		return "[]" + c.Expr(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + c.Expr(t.Elem())
	case reflect.Map:
		return "map[" + c.Expr(t.Key()) + "]" + c.Expr(t.Elem())
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return "any"
		}
	case reflect.Struct:
		if isEntry(t) {
			return "Pair[" + c.Expr(t.Field(0).Type) + "," + c.Expr(t.Field(1).Type) + "]"
		}
	}
	return t.String()
}

// Parse resolves a type expression produced by [Catalog.Expr].
func (c *Catalog) Parse(expr string) (reflect.Type, error) {
	p := &exprParser{c: c, src: expr}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, errors.New(errors.ErrCodeUnknownType, "trailing input in type expression %q", expr)
	}
	return t, nil
}

type exprParser struct {
	c   *Catalog
	src string
	pos int
}

func (p *exprParser) rest() string { return p.src[p.pos:] }

func (p *exprParser) fail(format string, args ...any) error {
	return errors.New(errors.ErrCodeUnknownType, "type expression %q: "+format, append([]any{p.src}, args...)...)
}

func (p *exprParser) expect(s string) error {
	if !strings.HasPrefix(p.rest(), s) {
		return p.fail("expected %q at offset %d", s, p.pos)
	}
	p.pos += len(s)
	return nil
}

func (p *exprParser) parse() (reflect.Type, error) {
	rest := p.rest()
	switch {
	case strings.HasPrefix(rest, "*"):
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil

	case strings.HasPrefix(rest, "[]"):
		p.pos += 2
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil

	case strings.HasPrefix(rest, "["):
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, p.fail("unterminated array length")
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil || n < 0 {
			return nil, p.fail("invalid array length %q", rest[1:end])
		}
		p.pos += end + 1
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return reflect.ArrayOf(n, elem), nil

	case strings.HasPrefix(rest, "map["):
		p.pos += len("map[")
		k, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		v, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !k.Comparable() {
			return nil, p.fail("map key %s is not comparable", k)
		}
		return reflect.MapOf(k, v), nil

	case strings.HasPrefix(rest, "any"), strings.HasPrefix(rest, "interface {}"):
		if strings.HasPrefix(rest, "any") && !p.atNameEnd(len("any")) {
			break
		}
		if strings.HasPrefix(rest, "any") {
			p.pos += len("any")
		} else {
			p.pos += len("interface {}")
		}
		return anyType, nil
	}
	return p.named()
}

// atNameEnd reports whether the identifier starting at the cursor ends after n bytes.
func (p *exprParser) atNameEnd(n int) bool {
	if p.pos+n >= len(p.src) {
		return true
	}
	return !isIdentByte(p.src[p.pos+n])
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '.' || b == '/' || b == '-' || b == '~' ||
		'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9' || b >= 0x80
}

// named parses a possibly qualified, possibly generic type name.
func (p *exprParser) named() (reflect.Type, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	ident := p.src[start:p.pos]
	if ident == "" {
		return nil, p.fail("expected type name at offset %d", start)
	}

	args := ""
	if strings.HasPrefix(p.rest(), "[") {
		depth := 0
		argStart := p.pos
		for p.pos < len(p.src) {
			switch p.src[p.pos] {
			case '[':
				depth++
			case ']':
				depth--
			}
			p.pos++
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			return nil, p.fail("unbalanced brackets")
		}
		args = p.src[argStart:p.pos]
	}

	pkg, name := "", ident
	if i := strings.LastIndexByte(ident, '.'); i >= 0 {
		pkg, name = ident[:i], ident[i+1:]
	}
	full := name + args

	if pkg != "" {
		if t, ok := p.c.types[key(pkg, full)]; ok {
			return t, nil
		}
		return nil, errors.New(errors.ErrCodeUnknownType, "unknown type %s.%s", pkg, full)
	}
	if t, ok := p.c.lookup(full); ok {
		return t, nil
	}
	if name == "Pair" && args != "" {
		return p.entry(args)
	}
	return nil, errors.New(errors.ErrCodeUnknownType, "unknown type %s", full)
}

// entry rebuilds a synthetic map entry type from its bracketed arguments.
func (p *exprParser) entry(args string) (reflect.Type, error) {
	sub := &exprParser{c: p.c, src: args[1 : len(args)-1]}
	k, err := sub.parse()
	if err != nil {
		return nil, err
	}
	if err := sub.expect(","); err != nil {
		return nil, err
	}
	v, err := sub.parse()
	if err != nil {
		return nil, err
	}
	if sub.pos != len(sub.src) {
		return nil, p.fail("malformed Pair arguments %q", args)
	}
	return EntryType(k, v), nil
}

var anyType = reflect.TypeFor[any]()

// EntryType returns the synthetic struct { Key K; Value V } used to carry one
// map entry.
func EntryType(k, v reflect.Type) reflect.Type {
	return reflect.StructOf([]reflect.StructField{
		{Name: "Key", Type: k},
		{Name: "Value", Type: v},
	})
}

// isEntry reports whether t is an unnamed struct with exactly the fields Key
// and Value.
func isEntry(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Name() == "" && t.NumField() == 2 &&
		t.Field(0).Name == "Key" && t.Field(1).Name == "Value"
}
