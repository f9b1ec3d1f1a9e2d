// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about serialize/deserialize calls and store file access.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Engine calls are synchronous and carry no context, so the hooks do not
// either.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnSerializeStart(typeName)
//	// ... walk the graph ...
//	observability.Engine().OnSerializeComplete(typeName, nodeCount, refCount, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the graph serializer and deserializer.
type EngineHooks interface {
	// Serialize events
	OnSerializeStart(typeName string)
	OnSerializeComplete(typeName string, nodeCount, refCount int, duration time.Duration, err error)

	// Deserialize events
	OnDeserializeStart(rootName string, nodeCount int)
	OnDeserializeComplete(rootName string, objectCount int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the file store.
type StoreHooks interface {
	// OnLoad records a load attempt of one location.
	OnLoad(path string, fallback, ok bool)

	// OnSave records a save attempt of one location.
	OnSave(path string, fallback, ok bool, size int)

	// OnDelete records the removal of a store file.
	OnDelete(path string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnSerializeStart(string)                                    {}
func (NoopEngineHooks) OnSerializeComplete(string, int, int, time.Duration, error) {}
func (NoopEngineHooks) OnDeserializeStart(string, int)                             {}
func (NoopEngineHooks) OnDeserializeComplete(string, int, time.Duration, error)    {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(string, bool, bool)      {}
func (NoopStoreHooks) OnSave(string, bool, bool, int) {}
func (NoopStoreHooks) OnDelete(string)                {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine operations.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	storeHooks = NoopStoreHooks{}
}
