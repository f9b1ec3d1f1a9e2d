// Package serialization turns object graphs into node trees and back.
//
// A [Serializer] walks a value with reflection and emits one [node.Node] per
// object: scalar fields become attributes, composite fields become a child
// element named after the field that wraps the serialized value, and the
// contents of slices, arrays and maps go under a [node.ElemItems] child. A
// [Deserializer] reverses the walk, resolving element names through a
// [catalog.Catalog].
//
// # Identity
//
// Pointers and maps carry identity. The second time the serializer reaches
// the same pointer in one call it writes a reference marker instead of the
// subtree, and tags the first node with a reference id. This keeps shared
// objects shared across a round trip and makes cyclic graphs finite.
//
// Pointers are transparent in the document: a *T is written exactly like a T.
// The deserializer materializes structs behind pointers and adapts them to
// whatever the destination expects (T, *T, or an interface, which receives *T).
//
// # Example
//
//	c := catalog.New("example.com/app")
//	c.Register(Settings{})
//
//	s := serialization.NewSerializer(serialization.WithCatalog(c))
//	root, err := s.Serialize(settings)
//
//	d := serialization.NewDeserializer(serialization.WithCatalog(c))
//	v, err := d.Deserialize(root)
//
// Serializers and deserializers are not safe for concurrent use. Each call
// uses its own reference cache, so sequential calls are independent.
package serialization

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/catalog"
	"github.com/matzehuels/stowage/pkg/codec"
	"github.com/matzehuels/stowage/pkg/props"
)

// Pair is a key/value pair. Pairs serialize with their Key and Value as
// properties and deserialize only when both are present.
//
// Go cannot build a generic instantiation from its name at run time, so a
// reader only resolves instantiations such as Pair[int, string] that its
// catalog has seen: register a value of the instantiation, or of a type that
// contains it, or pass a destination that contains it to
// [Deserializer.DeserializeAs]. Writing a pair teaches the writer's catalog,
// which is enough within one process.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// NewPair returns a pair of k and v.
func NewPair[K, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: k, Value: v}
}

// Option configures a [Serializer] or [Deserializer].
type Option func(*config)

type config struct {
	codec    *codec.Codec
	catalog  *catalog.Catalog
	selector *props.Selector
	logger   *log.Logger
}

// WithCodec sets the scalar codec. Use it to share enum registrations.
func WithCodec(c *codec.Codec) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.codec = c
		}
	}
}

// WithCatalog sets the type catalog used to describe and resolve types.
func WithCatalog(c *catalog.Catalog) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.catalog = c
		}
	}
}

// WithLogger sets the logger for recovered failures. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		codec:   codec.New(),
		catalog: catalog.New(""),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.selector = props.NewSelector(cfg.codec)
	return cfg
}

// Catalog returns the catalog in use.
func (c *config) Catalog() *catalog.Catalog { return c.catalog }

// Codec returns the codec in use.
func (c *config) Codec() *codec.Codec { return c.codec }
