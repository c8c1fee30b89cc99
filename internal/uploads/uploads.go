// Package uploads stores profile photos on local disk and exposes them
// by URL path. Only image uploads up to 5MB are accepted.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxPhotoSize = 5 << 20 // 5MB

var ErrNotImage = errors.New("only image files are allowed")

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// SavePhoto writes an uploaded photo to disk under a fresh name and
// returns the URL path it is served from. Callers must remove the file
// again if the surrounding transaction fails.
func (s *Store) SavePhoto(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxPhotoSize {
		return "", fmt.Errorf("file too large: %d bytes", file.Size)
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", ErrNotImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("profile-%s%s", uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return "/" + path.Join(s.dir, name), nil
}

// Remove deletes a stored photo given its URL path. Missing files are
// not an error; the photo may already be gone.
func (s *Store) Remove(urlPath string) error {
	if urlPath == "" {
		return nil
	}
	p := strings.TrimPrefix(urlPath, "/")
	if !strings.HasPrefix(p, s.dir) {
		return fmt.Errorf("path %q outside upload dir", urlPath)
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
