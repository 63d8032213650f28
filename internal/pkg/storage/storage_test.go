package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"my photo.jpg":     "my-photo.jpg",
		"../../etc/passwd": "passwd",
		`C:\tmp\a b.png`:   "a-b.png",
		".hidden":          "hidden",
		"":                 "file",
		"héllo!.gif":       "h-llo-.gif",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestNewKeyStaysUnderPrefix(t *testing.T) {
	key := NewKey("attachments/u1", "../x.png")
	assert.True(t, strings.HasPrefix(key, "attachments/u1/"))
	assert.True(t, strings.HasSuffix(key, "-x.png"))
	assert.NoError(t, validKey(key))
}

func TestLocalStorageLifecycle(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	key := "portfolio/p1/a.jpg"

	require.NoError(t, st.Put(ctx, key, bytes.NewReader([]byte("data")), "image/jpeg"))

	ok, err := st.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := os.ReadFile(filepath.Join(dir, "portfolio", "p1", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(raw))
	assert.Equal(t, "/uploads/portfolio/p1/a.jpg", st.URL(key))

	require.NoError(t, st.Delete(ctx, key))
	require.NoError(t, st.Delete(ctx, key))

	ok, err = st.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", "/abs", "../up", "a/../../b", "a//b"} {
		err := st.Put(context.Background(), key, strings.NewReader("x"), "text/plain")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestReadLimited(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	data, ct, err := ReadLimited(bytes.NewReader(png), 1024, "image/*")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Len(t, data, len(png))

	_, _, err = ReadLimited(bytes.NewReader(png), 8, "image/*")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, _, err = ReadLimited(strings.NewReader("plain words"), 1024, "image/*", "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, _, err = ReadLimited(strings.NewReader(""), 1024)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.True(t, isNotFound(fmt.Errorf("head: %w", &smithy.GenericAPIError{Code: "NoSuchKey"})))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(fmt.Errorf("network down")))
}
