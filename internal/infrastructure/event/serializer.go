package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/adbook/backend/internal/domain/shared"
)

// eventPointer is satisfied by *E when *E is a domain event
type eventPointer[E any] interface {
	*E
	shared.DomainEvent
}

// EventSerializer turns booking events into outbox payloads and back.
// Decoding needs the concrete type, so every event type the processor may
// meet has to be registered with RegisterEvent first.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]func() shared.DomainEvent
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{factories: make(map[string]func() shared.DomainEvent)}
}

// RegisterEvent binds eventType to the concrete event E. eventType must be
// what (*E).EventType reports. Registering a type twice replaces it.
func RegisterEvent[E any, P eventPointer[E]](s *EventSerializer, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[eventType] = func() shared.DomainEvent { return P(new(E)) }
}

// Serialize encodes event as the JSON stored in the outbox row
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}
	return data, nil
}

// Deserialize decodes data into a fresh event of the type bound to eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	factory, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	return event, nil
}

// DeserializeEntry decodes the payload of a claimed outbox entry
func (s *EventSerializer) DeserializeEntry(entry *shared.OutboxEntry) (shared.DomainEvent, error) {
	return s.Deserialize(entry.EventType, entry.Payload)
}

func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}

// RegisteredTypes lists the bound event types in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
