package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ErrFileNotFound is returned when a stored file does not exist.
var ErrFileNotFound = errors.New("file not found")

// FileStore persists uploaded files (consultation photos, voice notes, chat
// attachments, profile photos) under a generated collision-free name.
type FileStore interface {
	// Save writes the content and returns the stored filename.
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	// Open returns the content of a previously stored file.
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, storedName string) error
}

// StoredName builds the persisted filename: upload timestamp joined with the
// sanitized original name, so listings sort chronologically and names never
// collide within a second per user flow.
func StoredName(originalName string, now time.Time) string {
	return fmt.Sprintf("%d_%s", now.Unix(), SanitizeFilename(originalName))
}

// SanitizeFilename strips path components and characters that are unsafe in
// filenames or object keys.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		return "file"
	}
	return sanitized
}
