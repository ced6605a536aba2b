package localstore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRemove(t *testing.T) {
	s := New("", zerolog.Nop())

	_, ok := s.Get(KeyTheme)
	assert.False(t, ok)

	s.Set(KeyTheme, "dark")
	v, ok := s.Get(KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	s.Remove(KeyTheme)
	_, ok = s.Get(KeyTheme)
	assert.False(t, ok)
}

func TestFilePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")

	s := New(path, zerolog.Nop())
	s.Set(KeyCurrentUser, `{"role":"doctor"}`)

	reopened := New(path, zerolog.Nop())
	v, ok := reopened.Get(KeyCurrentUser)
	require.True(t, ok)
	assert.Equal(t, `{"role":"doctor"}`, v)
}

func TestUserKeyScoping(t *testing.T) {
	s := New("", zerolog.Nop())
	s.Set(UserKey(KeyTheme, "a@example.com"), "dark")
	s.Set(UserKey(KeyTheme, "b@example.com"), "light")

	v, _ := s.Get(UserKey(KeyTheme, "a@example.com"))
	assert.Equal(t, "dark", v)
	v, _ = s.Get(UserKey(KeyTheme, "b@example.com"))
	assert.Equal(t, "light", v)
}
