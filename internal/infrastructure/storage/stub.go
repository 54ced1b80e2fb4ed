package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/adbook/backend/internal/application/booking"
)

var _ booking.FileStorage = (*StubObjectStorage)(nil)

// StubObjectStorage keeps objects in memory. It backs development setups
// without an S3 endpoint and the handler tests.
type StubObjectStorage struct {
	baseURL string
	maxSize int64

	mu      sync.RWMutex
	objects map[string]StoredObject
}

// StoredObject is an object held by StubObjectStorage
type StoredObject struct {
	ContentType string
	Data        []byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage(baseURL string, maxSize int64) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/files"
	}
	return &StubObjectStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
		objects: make(map[string]StoredObject),
	}
}

// Store keeps body in memory and returns a URL under the base URL
func (s *StubObjectStorage) Store(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	data, err := readLimited(body, s.maxSize)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = StoredObject{ContentType: contentType, Data: data}
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

// Get returns a stored object
func (s *StubObjectStorage) Get(key string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
