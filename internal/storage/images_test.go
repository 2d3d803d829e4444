package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-directory-server/internal/apperror"
)

var defaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func newTestStore(t *testing.T, maxBytes int64) *ImageStore {
	t.Helper()
	s, err := NewImageStore(filepath.Join(t.TempDir(), "uploads"), maxBytes, defaultExtensions)
	require.NoError(t, err)
	return s
}

func TestValidate(t *testing.T) {
	s := newTestStore(t, 1024)

	tests := []struct {
		name     string
		fileName string
		size     int64
		wantExt  string
		wantErr  bool
	}{
		{"png", "cat.png", 10, ".png", false},
		{"uppercase extension", "CAT.JPEG", 10, ".jpeg", false},
		{"webp", "a.b.webp", 10, ".webp", false},
		{"executable", "cat.exe", 10, "", true},
		{"no extension", "cat", 10, "", true},
		{"exactly at limit", "cat.gif", 1024, ".gif", false},
		{"over limit", "cat.gif", 1025, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := s.Validate(tt.fileName, tt.size)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestValidateListsAllowedExtensions(t *testing.T) {
	s := newTestStore(t, 1024)
	_, err := s.Validate("notes.txt", 1)
	require.Error(t, err)
	assert.Equal(t, "only image files are accepted: .jpg, .jpeg, .png, .gif, .bmp, .webp", apperror.MessageOf(err))
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestStore(t, 1024)

	name, err := s.Save(bytes.NewReader(pngPixel), ".png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotContains(t, name, "/")

	img, err := s.Open(name)
	require.NoError(t, err)
	defer img.File.Close()
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int64(len(pngPixel)), img.Size)

	other, err := s.Save(bytes.NewReader(pngPixel), ".png")
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestSaveRejectsOversizedStream(t *testing.T) {
	s := newTestStore(t, 8)

	_, err := s.Save(bytes.NewReader(make([]byte, 9)), ".png")
	assert.ErrorIs(t, err, apperror.ErrImageTooLarge)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenRejectsTraversal(t *testing.T) {
	s := newTestStore(t, 1024)
	secret := filepath.Join(filepath.Dir(s.Dir()), "secret.png")
	require.NoError(t, os.WriteFile(secret, pngPixel, 0o644))

	for _, name := range []string{"../secret.png", "", ".", "..", "missing.png"} {
		_, err := s.Open(name)
		assert.ErrorIs(t, err, apperror.ErrImageNotFound, name)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, 1024)
	name, err := s.Save(bytes.NewReader(pngPixel), ".png")
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	require.NoError(t, s.Remove(name))
	_, err = s.Open(name)
	assert.ErrorIs(t, err, apperror.ErrImageNotFound)
}
