package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"voice note (1).mp3", "voice_note__1_.mp3"},
		{"", "file"},
		{"..", "file"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoredName(t *testing.T) {
	at := time.Unix(1700000000, 0)
	got := StoredName("rash photo.png", at)
	want := "1700000000_rash_photo.png"
	if got != want {
		t.Errorf("StoredName = %q, want %q", got, want)
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	name, err := store.Save(ctx, "note.txt", strings.NewReader("symptom photo bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, "_note.txt") {
		t.Errorf("stored name %q missing sanitized suffix", name)
	}

	rc, err := store.Open(ctx, name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "symptom photo bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestLocalStoreMissingFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if _, err := store.Open(context.Background(), "12345_absent.png"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Open missing = %v, want ErrFileNotFound", err)
	}

	// Deleting a missing file is a no-op.
	if err := store.Delete(context.Background(), "12345_absent.png"); err != nil {
		t.Errorf("Delete missing = %v, want nil", err)
	}
}

func TestLocalStoreIgnoresPathTraversalOnOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if _, err := store.Open(context.Background(), "../../../etc/passwd"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Open traversal = %v, want ErrFileNotFound", err)
	}
}
