package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreAndOpen(t *testing.T) {
	s := newLocalStorage(t.TempDir(), "http://localhost:8080/")

	url, err := s.Store(context.Background(), "properties", "kitchen.jpg", "image/jpeg", strings.NewReader("imagedata"), 9)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/api/v1/files/properties/"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)

	name := filepath.Base(url)
	rc, err := s.Open(context.Background(), "properties", name)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "imagedata", string(data))
}

func TestLocalStoredNamesAreUnique(t *testing.T) {
	s := newLocalStorage(t.TempDir(), "http://localhost:8080")

	url1, err := s.Store(context.Background(), "profiles", "me.png", "image/png", strings.NewReader("a"), 1)
	require.NoError(t, err)
	url2, err := s.Store(context.Background(), "profiles", "me.png", "image/png", strings.NewReader("b"), 1)
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)
}

func TestLocalDelete(t *testing.T) {
	s := newLocalStorage(t.TempDir(), "http://localhost:8080")

	url, err := s.Store(context.Background(), "properties", "a.png", "image/png", strings.NewReader("x"), 1)
	require.NoError(t, err)

	name := filepath.Base(url)
	require.NoError(t, s.Delete(context.Background(), "properties", name))

	_, err = s.Open(context.Background(), "properties", name)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalRejectsPathTraversal(t *testing.T) {
	s := newLocalStorage(t.TempDir(), "http://localhost:8080")

	_, err := s.Open(context.Background(), "properties", "../../etc/passwd")
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = s.Delete(context.Background(), "..", "config.go")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidImageType(t *testing.T) {
	assert.True(t, ValidImageType("image/jpeg"))
	assert.True(t, ValidImageType("image/png"))
	assert.False(t, ValidImageType("application/pdf"))
	assert.False(t, ValidImageType("text/html"))
}
