// Package session keeps one current object and one file path, and moves the
// object between memory and disk.
//
// A [Session] is an explicit handle: create one with [New], point it at a
// file with [Session.Initialize], then use [Load] and [Session.Save]:
//
//	s := session.New(session.WithCatalog(c), session.WithLogger(logger))
//	settings, err := session.InitializeAndLoad(s, "farkle.xml", farkle.NewSettings())
//	if err != nil {
//	    return err // unknown type in the document
//	}
//	settings.AddScore(score)
//	if !s.Save() {
//	    logger.Warn("settings not saved")
//	}
//
// Files are read and written through a [FileStore], which retries every
// operation at a fallback location in the temporary directory. I/O failures
// are reported as a nil object or a false result, never as errors; the only
// error a session returns is a type in the document that the catalog cannot
// resolve.
//
// # Reentrancy
//
// Deserialization may run user code (property setters, factories). A
// [Session.Deserialize] call made while another one is in flight on the same
// session returns (nil, nil) without touching the in-flight state.
//
// Sessions are not safe for concurrent use.
package session

import (
	"io"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/catalog"
	"github.com/matzehuels/stowage/pkg/codec"
	"github.com/matzehuels/stowage/pkg/serialization"
)

// Session holds the current object and the path it is persisted to.
type Session struct {
	store  *FileStore
	ser    *serialization.Serializer
	des    *serialization.Deserializer
	cat    *catalog.Catalog
	logger *log.Logger

	path   string
	object any
	busy   bool
}

type options struct {
	logger  *log.Logger
	catalog *catalog.Catalog
	codec   *codec.Codec
	store   *FileStore
}

// Option configures a [Session].
type Option func(*options)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCatalog sets the catalog used to describe and resolve types.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithCodec sets the scalar codec.
func WithCodec(c *codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithStore sets the file store. The default store logs to the session logger.
func WithStore(fs *FileStore) Option {
	return func(o *options) { o.store = fs }
}

// New creates a session with no path and no current object.
func New(opts ...Option) *Session {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.catalog == nil {
		o.catalog = catalog.New("")
	}
	if o.codec == nil {
		o.codec = codec.New()
	}
	if o.store == nil {
		o.store = NewFileStore(o.logger)
	}

	shared := []serialization.Option{
		serialization.WithCatalog(o.catalog),
		serialization.WithCodec(o.codec),
		serialization.WithLogger(o.logger),
	}
	return &Session{
		store:  o.store,
		ser:    serialization.NewSerializer(shared...),
		des:    serialization.NewDeserializer(shared...),
		cat:    o.catalog,
		logger: o.logger,
	}
}

// Initialize sets the file path used by later loads and saves.
func (s *Session) Initialize(path string) {
	s.path = path
}

// Path returns the primary file path.
func (s *Session) Path() string { return s.path }

// Store returns the file store.
func (s *Session) Store() *FileStore { return s.store }

// Catalog returns the type catalog shared by serialization and deserialization.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Object returns the object last loaded, saved or set.
func (s *Session) Object() any { return s.object }

// SetObject replaces the current object. Values whose type cannot be
// reconstructed on load (functions, channels, nil) clear it instead.
func (s *Session) SetObject(v any) {
	if v == nil || !catalog.Constructible(reflect.TypeOf(v)) {
		if v != nil {
			s.logger.Debug("rejecting object", "type", reflect.TypeOf(v))
		}
		s.object = nil
		return
	}
	s.object = v
}

// Deserialize reads the session file and makes its contents the current
// object. It returns (nil, nil) when no file can be read, and also when
// called while another Deserialize on s is in flight.
func (s *Session) Deserialize() (any, error) {
	if s.busy {
		s.logger.Debug("refusing nested deserialize", "path", s.path)
		return nil, nil
	}
	s.busy = true
	defer func() { s.busy = false }()

	root := s.store.Load(s.path)
	if root == nil {
		s.object = nil
		return nil, nil
	}
	v, err := s.des.Deserialize(root)
	if err != nil {
		s.object = nil
		return nil, err
	}
	s.SetObject(v)
	return s.object, nil
}

// Load deserializes the session file and returns the result as a T. When the
// file is missing or its contents are not a T, def is returned instead. The
// returned value becomes the current object in both cases.
func Load[T any](s *Session, def T) (T, error) {
	s.cat.Learn(reflect.TypeFor[T]())
	v, err := s.Deserialize()
	if err != nil {
		s.SetObject(def)
		return def, err
	}
	if t, ok := as[T](v); ok {
		s.SetObject(t)
		return t, nil
	}
	if v != nil {
		s.logger.Debug("substituting default", "got", reflect.TypeOf(v), "want", reflect.TypeFor[T]())
	}
	s.SetObject(def)
	return def, nil
}

// InitializeAndLoad is [Session.Initialize] followed by [Load].
func InitializeAndLoad[T any](s *Session, path string, def T) (T, error) {
	s.Initialize(path)
	return Load(s, def)
}

// as converts a deserialized value to T, following or taking one pointer if
// needed.
func as[T any](v any) (T, bool) {
	var zero T
	if t, ok := v.(T); ok {
		return t, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return zero, false
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if t, ok := rv.Elem().Interface().(T); ok {
			return t, true
		}
	}
	if tt := reflect.TypeFor[T](); tt.Kind() == reflect.Pointer && rv.Type() == tt.Elem() {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p.Interface().(T), true
	}
	return zero, false
}

// Save writes the current object. See [Session.SaveObject].
func (s *Session) Save() bool {
	return s.SaveObject(s.object)
}

// SaveObject makes v the current object and writes it to the session file,
// falling back to the temporary location. A nil (or rejected) v deletes both
// files and returns false.
func (s *Session) SaveObject(v any) bool {
	s.SetObject(v)
	if s.object == nil {
		s.store.Delete(s.path)
		return false
	}

	root, err := s.ser.Serialize(s.object)
	if err != nil || root == nil {
		s.logger.Debug("serialize failed", "type", reflect.TypeOf(s.object), "err", err)
		return false
	}
	return s.store.Save(root, s.path)
}
