package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage_Store(t *testing.T) {
	s := NewStubObjectStorage("http://files.local/", 0)
	ctx := context.Background()

	url, err := s.Store(ctx, "banners/wo-1/hero.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://files.local/banners/wo-1/hero.png", url)

	obj, ok := s.Get("banners/wo-1/hero.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, []byte("png-bytes"), obj.Data)
}

func TestStubObjectStorage_DefaultBaseURL(t *testing.T) {
	s := NewStubObjectStorage("", 0)

	url, err := s.Store(context.Background(), "po/1.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/po/1.pdf", url)
}

func TestStubObjectStorage_Errors(t *testing.T) {
	s := NewStubObjectStorage("", 4)
	ctx := context.Background()

	_, err := s.Store(ctx, "", "text/plain", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")

	_, err = s.Store(ctx, "big.txt", "text/plain", strings.NewReader("12345"))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = s.Store(ctx, "nil.txt", "text/plain", nil)
	assert.Error(t, err)

	_, ok := s.Get("big.txt")
	assert.False(t, ok)
}
