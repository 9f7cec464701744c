package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PostImageDir is the subdirectory of the media root holding post images.
const PostImageDir = "post_images"

// MaxImageSize caps uploads at 10MB.
const MaxImageSize = 10 * 1024 * 1024

var (
	ErrNotImage      = errors.New("only image files can be uploaded")
	ErrImageTooLarge = errors.New("image is larger than 10MB")
)

// ImageStore keeps uploaded post images on local disk under Root.
type ImageStore struct {
	Root string
}

// NewImageStore creates a store rooted at the media directory.
func NewImageStore(root string) *ImageStore {
	return &ImageStore{Root: root}
}

// Save validates the upload by content sniffing and writes it under a random
// name. It returns the path relative to Root, with forward slashes.
func (s *ImageStore) Save(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("detect image type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	dir := filepath.Join(s.Root, PostImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + mtype.Extension()
	if err := writeFile(filepath.Join(dir, name), file); err != nil {
		return "", err
	}
	return PostImageDir + "/" + name, nil
}

// writeFile copies at most MaxImageSize bytes into path. A partially written
// file is removed.
func writeFile(path string, src io.Reader) (err error) {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close image file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	n, err := io.Copy(dst, io.LimitReader(src, MaxImageSize+1))
	if err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	if n > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *ImageStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("refusing to remove %q outside media root", rel)
	}
	err := os.Remove(filepath.Join(s.Root, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
