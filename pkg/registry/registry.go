// Package registry implements the process-wide (or, as here, host-scoped)
// service directory: a concurrently accessible map from service id to the
// descriptor and handle a plugin published for it.
package registry

import (
	"sync"

	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/hosterr"
)

type entry struct {
	descriptor abi.ServiceDescriptor
	handle     abi.ServiceHandle
}

// Registry is a thread-safe directory of registered services. Readers
// proceed concurrently; writers are exclusive. The lock is never held across
// a call into plugin or caller code.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]entry
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{byID: make(map[string]entry)}
}

// Register publishes a service. Fails with ErrAlreadyRegistered if the
// descriptor's id is already present — there is no overwrite. The entry is
// visible to any subsequent Lookup before Register returns.
func (r *Registry) Register(desc abi.ServiceDescriptor, handle abi.ServiceHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[desc.ID]; exists {
		return hosterr.New(hosterr.ErrAlreadyRegistered, "registry.register", nil).
			WithPlugin(desc.ProviderID).
			WithAdvice("service " + desc.ID + " is already registered")
	}
	r.byID[desc.ID] = entry{descriptor: desc, handle: handle}
	return nil
}

// Lookup returns the stored handle for id, if present. No version check.
func (r *Registry) Lookup(id string) (abi.ServiceHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return abi.ServiceHandle{}, false
	}
	return e.handle, true
}

// LookupVersioned returns the handle for id only if the registered
// descriptor's version satisfies min under the major/minor/patch
// compatibility rule.
func (r *Registry) LookupVersioned(id string, min abi.ServiceVersion) (abi.ServiceHandle, error) {
	r.mu.RLock()
	e, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return abi.ServiceHandle{}, hosterr.New(hosterr.ErrServiceNotAvailable, "registry.lookup_versioned", nil).
			WithPlugin(id).
			WithAdvice("no provider has registered this service")
	}
	if !e.descriptor.Version.Satisfies(min) {
		return abi.ServiceHandle{}, hosterr.Newf(hosterr.ErrServiceNotAvailable, "registry.lookup_versioned",
			"service %s version %s does not satisfy required minimum %s", id, e.descriptor.Version, min)
	}
	return e.handle, nil
}

// List returns every registered descriptor. Order is unspecified.
func (r *Registry) List() []abi.ServiceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]abi.ServiceDescriptor, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e.descriptor)
	}
	return out
}

// UnregisterProvider removes every entry whose descriptor's ProviderID
// equals providerID. Idempotent.
func (r *Registry) UnregisterProvider(providerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.byID {
		if e.descriptor.ProviderID == providerID {
			delete(r.byID, id)
		}
	}
}

// HasService reports whether id is currently registered.
func (r *Registry) HasService(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// IsEmpty reports whether no services are registered.
func (r *Registry) IsEmpty() bool {
	return r.Len() == 0
}
