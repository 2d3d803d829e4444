package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"chat-directory-server/internal/apperror"
)

// ImageStore keeps uploaded chat images on local disk under random names.
type ImageStore struct {
	dir        string
	maxBytes   int64
	extensions map[string]struct{}
	allowed    []string
}

// NewImageStore creates the upload directory if needed.
func NewImageStore(dir string, maxBytes int64, allowedExtensions []string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	s := &ImageStore{
		dir:        dir,
		maxBytes:   maxBytes,
		extensions: make(map[string]struct{}, len(allowedExtensions)),
	}
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(ext)
		s.extensions[ext] = struct{}{}
		s.allowed = append(s.allowed, ext)
	}
	return s, nil
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Validate checks the size limit and the extension of an upload and returns
// the normalized extension.
func (s *ImageStore) Validate(fileName string, size int64) (string, error) {
	if size > s.maxBytes {
		return "", apperror.ErrImageTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := s.extensions[ext]; !ok {
		return "", apperror.InvalidArg("only image files are accepted: " + strings.Join(s.allowed, ", "))
	}
	return ext, nil
}

// Save writes src under a fresh random name with the given extension and
// returns that name. At most maxBytes are accepted even if the declared
// size was smaller.
func (s *ImageStore) Save(src io.Reader, ext string) (string, error) {
	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	n, copyErr := io.Copy(f, io.LimitReader(src, s.maxBytes+1))
	closeErr := f.Close()
	if copyErr == nil && n > s.maxBytes {
		copyErr = apperror.ErrImageTooLarge
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(path)
		if errors.Is(copyErr, apperror.ErrImageTooLarge) {
			return "", copyErr
		}
		return "", fmt.Errorf("write image file: %w", copyErr)
	}
	return name, nil
}

// Remove deletes a stored image; a missing file is not an error.
func (s *ImageStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Image is an opened stored image.
type Image struct {
	File        *os.File
	Size        int64
	ContentType string
}

// Open looks up a stored image by the name Save returned. Names containing
// path elements are treated as unknown.
func (s *ImageStore) Open(name string) (*Image, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, apperror.ErrImageNotFound
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, apperror.ErrImageNotFound
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect image type: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return &Image{File: f, Size: info.Size(), ContentType: mtype.String()}, nil
}
