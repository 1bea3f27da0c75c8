package midivault

import (
	"sync"

	"github.com/midivault/midivault/pkg/catalog"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for system events
type (
	// SystemAddedHook is called when an index update lists a new system
	SystemAddedHook func(name string)

	// SystemRemovedHook is called when a system drops out of the catalog
	SystemRemovedHook func(name string)
)

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnSystemAdded registers a callback for newly listed systems
	OnSystemAdded(SystemAddedHook)

	// OnSystemRemoved registers a callback for systems leaving the catalog
	OnSystemRemoved(SystemRemovedHook)
}

// OnSystemAdded registers a callback for newly listed systems. Callbacks
// run synchronously during Update and Refresh, after the new catalog is
// installed.
func (c *client) OnSystemAdded(fn SystemAddedHook) {
	c.hooks.onSystemAdded(fn)
}

// OnSystemRemoved registers a callback for systems leaving the catalog.
func (c *client) OnSystemRemoved(fn SystemRemovedHook) {
	c.hooks.onSystemRemoved(fn)
}

// hooks manages event callbacks for catalog swaps.
type hooks struct {
	mu      sync.RWMutex
	added   []SystemAddedHook
	removed []SystemRemovedHook
}

// newHooks creates a new hooks instance.
func newHooks() *hooks {
	return &hooks{}
}

func (h *hooks) onSystemAdded(fn SystemAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.added = append(h.added, fn)
}

func (h *hooks) onSystemRemoved(fn SystemRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removed = append(h.removed, fn)
}

// triggerCatalogSwap compares the system sets of the old and new catalogs
// and fires the matching hooks. Names() is sorted, so callbacks fire in
// name order.
func (h *hooks) triggerCatalogSwap(old, next *catalog.Catalog) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.added) == 0 && len(h.removed) == 0 {
		return
	}

	oldNames := make(map[string]bool, old.Len())
	for _, name := range old.Names() {
		oldNames[name] = true
	}
	nextNames := make(map[string]bool, next.Len())
	for _, name := range next.Names() {
		nextNames[name] = true
	}

	for _, name := range next.Names() {
		if !oldNames[name] {
			for _, hook := range h.added {
				hook(name)
			}
		}
	}
	for _, name := range old.Names() {
		if !nextNames[name] {
			for _, hook := range h.removed {
				hook(name)
			}
		}
	}
}
