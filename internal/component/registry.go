// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name>; cmd/web
// constructs it with its dependencies (store pool, renderer, logger) and
// calls component.Register().  Bootstrap then applies every component's
// Migrations() against the pool and mounts Routes() at Mount().

package component

import (
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Migrations() may return nil when the component has no schema.  Routes()
// should mount BOTH page and API endpoints, e.g.:
//
//	r := chi.NewRouter()
//	r.Get("/", getForm)
//	r.Post("/submit", postForm)
//	return r
type Component interface {
	Name() string
	Mount() string
	Routes() chi.Router
	Migrations() []string
}

var (
	mu       sync.RWMutex
	registry []Component
)

// Register adds a constructed component.  Registration order is mount
// order, so register the root-mounted component last if paths overlap.
func Register(c Component) {
	mu.Lock()
	registry = append(registry, c)
	mu.Unlock()
}

// All returns every registered component in registration order.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, len(registry))
	copy(out, registry)
	return out
}
