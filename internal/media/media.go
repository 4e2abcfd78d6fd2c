// Package media stores uploaded images on disk under names that cannot
// collide or escape the media directory.
package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// URLPrefix is the path the media directory is served under.
const URLPrefix = "/media"

const maxAttempts = 5

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}

	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save copies the upload to <unix-millis>_<sanitized name> and returns the
// URL path it will be served from.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	safe := SanitizeFilename(file.Filename)
	stamp := s.now().UnixMilli()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		name := fmt.Sprintf("%d_%s", stamp+int64(attempt), safe)

		dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating media file: %w", err)
		}

		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			os.Remove(dst.Name())
			return "", fmt.Errorf("writing media file: %w", err)
		}
		if err := dst.Close(); err != nil {
			os.Remove(dst.Name())
			return "", fmt.Errorf("closing media file: %w", err)
		}

		return URLPrefix + "/" + name, nil
	}

	return "", fmt.Errorf("no free media file name for %q", safe)
}

// SanitizeFilename keeps the base name of an upload and replaces every
// character outside [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	safe := strings.TrimLeft(b.String(), ".")
	if safe == "" {
		return "upload"
	}

	return safe
}
