// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package displaylink

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNoDisplayAvailable is returned by Connect when no vsync source
// binds the display.
var ErrNoDisplayAvailable = errors.New("displaylink: no display link backend available")

// RegistryEntry is a vsync source known to a Registry. Connect tries
// higher priorities first; the software ticker sits at 10.
type RegistryEntry struct {
	Name     string
	Priority int
	Factory  LinkFactory

	// Available gates the source on the current machine.
	Available func() bool
}

var globalRegistry = NewRegistry()

func init() {
	globalRegistry.Register(TickerBackend, 10, func(DisplayID) (Link, error) {
		return NewTickerLink(DefaultRefreshRate), nil
	}, nil)
}

// Registry maps names to vsync sources. New uses DefaultRegistry
// unless WithRegistry is given.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// DefaultRegistry returns the registry holding the software ticker.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a vsync source to DefaultRegistry.
func Register(name string, priority int, factory LinkFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a vsync source from DefaultRegistry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns the names in DefaultRegistry in connect order.
func List() []string {
	return globalRegistry.List()
}

// Available is List restricted to sources available here.
func Available() []string {
	return globalRegistry.Available()
}

// Register adds or replaces the source called name. A nil available
// func means always available.
func (r *Registry) Register(name string, priority int, factory LinkFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes the source called name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns every name in connect order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns the available names in connect order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of the entry registered under name.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// Connect asks each available source, in connect order, for a link to
// display and returns the first link with its source name. A source
// that errors or returns nil is skipped.
func (r *Registry) Connect(display DisplayID) (Link, string, error) {
	r.mu.RLock()
	names := r.sortedNames(true)
	factories := make([]LinkFactory, len(names))
	for i, name := range names {
		factories[i] = r.entries[name].Factory
	}
	r.mu.RUnlock()

	if len(names) == 0 {
		return nil, "", ErrNoDisplayAvailable
	}

	var lastErr error
	for i, factory := range factories {
		link, err := factory(display)
		if err == nil && link != nil {
			return link, names[i], nil
		}
		if err == nil {
			err = fmt.Errorf("backend %q returned no link", names[i])
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoDisplayAvailable, lastErr)
}

// sortedNames orders by descending priority, ties by name. Caller holds r.mu.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b *RegistryEntry) int {
		return cmp.Or(cmp.Compare(b.Priority, a.Priority), cmp.Compare(a.Name, b.Name))
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
