package ratewatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lastdsr")
	s := NewFileStore(path)

	require.NoError(t, s.Save(5.25))

	rate, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 5.25, rate)

	// a second save overwrites the whole file
	require.NoError(t, s.Save(4.5))
	rate, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, 4.5, rate)
}

func TestFileStoreMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "lastdsr"))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrMissingState)
}

func TestFileStoreInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lastdsr")
	require.NoError(t, os.WriteFile(path, []byte("not a number\n"), 0o644))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, ErrMissingState)
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lastdsr")
	require.NoError(t, os.WriteFile(path, []byte(" 3.75 \n"), 0o644))

	rate, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 3.75, rate)
}
