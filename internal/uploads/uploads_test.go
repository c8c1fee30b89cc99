package uploads

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func newFileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="photo"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("photo")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	return fh
}

func TestStore_SavePhoto(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	fh := newFileHeader(t, "avatar.png", "image/png", []byte("png-bytes"))
	urlPath, err := s.SavePhoto(fh)
	if err != nil {
		t.Fatalf("SavePhoto() error = %v", err)
	}

	name := urlPath[strings.LastIndex(urlPath, "/")+1:]
	if !strings.HasPrefix(name, "profile-") || !strings.HasSuffix(name, ".png") {
		t.Errorf("stored name %q, want profile-<uuid>.png", name)
	}

	data, err := os.ReadFile(strings.TrimPrefix(urlPath, "/"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q, want %q", data, "png-bytes")
	}
}

func TestStore_SavePhotoRejectsNonImage(t *testing.T) {
	s := NewStore(t.TempDir())

	fh := newFileHeader(t, "notes.txt", "text/plain", []byte("hello"))
	if _, err := s.SavePhoto(fh); !errors.Is(err, ErrNotImage) {
		t.Errorf("SavePhoto() error = %v, want ErrNotImage", err)
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore(t.TempDir())

	fh := newFileHeader(t, "avatar.jpg", "image/jpeg", []byte("jpg-bytes"))
	urlPath, err := s.SavePhoto(fh)
	if err != nil {
		t.Fatalf("SavePhoto() error = %v", err)
	}

	if err := s.Remove(urlPath); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(strings.TrimPrefix(urlPath, "/")); !os.IsNotExist(err) {
		t.Error("file still present after Remove")
	}

	// removing again is fine, the file may already be gone
	if err := s.Remove(urlPath); err != nil {
		t.Errorf("Remove() of missing file error = %v, want nil", err)
	}
	if err := s.Remove(""); err != nil {
		t.Errorf("Remove(\"\") error = %v, want nil", err)
	}
}

func TestStore_RemoveOutsideDir(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Remove("/etc/passwd"); err == nil {
		t.Error("Remove() outside the upload dir should fail")
	}
}
