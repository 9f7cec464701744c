package services

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes is a 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestImageStoreSaveAndRemove(t *testing.T) {
	store := NewImageStore(t.TempDir())

	rel, err := store.Save(uploadHeader(t, "dot.bin", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, PostImageDir+"/"))
	assert.Equal(t, ".png", filepath.Ext(rel), "extension comes from the content")

	saved, err := os.ReadFile(filepath.Join(store.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, saved)

	require.NoError(t, store.Remove(rel))
	require.NoError(t, store.Remove(rel), "removing twice is fine")
	assert.Error(t, store.Remove("../etc/passwd"))
}

func TestImageStoreRejectsNonImages(t *testing.T) {
	store := NewImageStore(t.TempDir())
	_, err := store.Save(uploadHeader(t, "fake.png", []byte("plain text, not an image")))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestWriteFileRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	src := io.MultiReader(bytes.NewReader(pngBytes), iotest.ErrReader(errors.New("connection reset")))

	err := writeFile(path, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial file is removed")
}

func TestWriteFileRejectsOversizedStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	src := io.LimitReader(zeroReader{}, MaxImageSize+10)

	err := writeFile(path, src)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
