package event

import (
	"maps"
	"slices"
	"sync"

	"github.com/adbook/backend/internal/domain/shared"
)

// anyEvent keys the handlers that receive every event type
const anyEvent = ""

// HandlerRegistry routes event types to the handlers subscribed to them
type HandlerRegistry struct {
	mu     sync.RWMutex
	routes map[string][]shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{routes: make(map[string][]shared.EventHandler)}
}

// Register subscribes handler to eventTypes, or to every event when none are
// given. Repeated registrations are ignored.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{anyEvent}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		if !slices.Contains(r.routes[t], handler) {
			r.routes[t] = append(r.routes[t], handler)
		}
	}
}

// Unregister drops handler from every route
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, hs := range r.routes {
		hs = slices.DeleteFunc(slices.Clone(hs), func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(r.routes, t)
			continue
		}
		r.routes[t] = hs
	}
}

// GetHandlers lists the handlers for eventType: specific subscribers first,
// then catch-all ones not already listed.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return appendUnique(slices.Clone(r.routes[eventType]), r.routes[anyEvent]...)
}

// EventTypes returns the sorted types that have a specific subscriber
func (r *HandlerRegistry) EventTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := slices.Sorted(maps.Keys(r.routes))
	return slices.DeleteFunc(types, func(t string) bool { return t == anyEvent })
}

// GetAllHandlers returns each registered handler once
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []shared.EventHandler
	for _, t := range slices.Sorted(maps.Keys(r.routes)) {
		all = appendUnique(all, r.routes[t]...)
	}
	return all
}

func appendUnique(dst []shared.EventHandler, hs ...shared.EventHandler) []shared.EventHandler {
	for _, h := range hs {
		if !slices.Contains(dst, h) {
			dst = append(dst, h)
		}
	}
	return dst
}
