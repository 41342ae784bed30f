package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"funkosrest/internal/apperr"
)

func TestStoredName(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 789012000, time.UTC)

	got, err := StoredName("Mickey Mouse", "photo.PNG", now)
	if err != nil {
		t.Fatal(err)
	}
	if got != "mickey-mouse-2024-02-03-04-05-06-789012.png" {
		t.Errorf("StoredName = %q", got)
	}

	for _, bad := range []string{"virus.exe", "noext", "image.gif"} {
		if _, err := StoredName("x", bad, now); !apperr.Is(err, apperr.KindBadRequest) {
			t.Errorf("StoredName(%q) err = %v, want bad request", bad, err)
		}
	}
}

func TestOwnedBy(t *testing.T) {
	name, err := StoredName("Mickey Mouse", "a.png", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !OwnedBy(name, "Mickey Mouse") {
		t.Errorf("%q not owned by its prefix", name)
	}
	if OwnedBy(name, "Mickey") || OwnedBy("other.png", "Mickey Mouse") {
		t.Error("foreign names reported as owned")
	}
}

func TestFileSystem(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileSystem(t.TempDir(), "http://localhost:8080/storage/")
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Store(ctx, "a.png", "image/png", strings.NewReader("png-bytes"), 9); err != nil {
		t.Fatal(err)
	}
	if err := fs.Store(ctx, "a.png", "image/png", strings.NewReader("again"), 5); err == nil {
		t.Error("overwrite allowed")
	}

	rc, err := fs.Load(ctx, "a.png")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "png-bytes" {
		t.Errorf("loaded %q", b)
	}

	url := fs.URL("a.png")
	if url != "http://localhost:8080/storage/a.png" {
		t.Errorf("URL = %q", url)
	}
	name, ok := FilenameFromURL(fs, url)
	if !ok || name != "a.png" {
		t.Errorf("FilenameFromURL = %q, %v", name, ok)
	}
	if _, ok := FilenameFromURL(fs, "https://www.madirex.com/favicon.ico"); ok {
		t.Error("foreign URL claimed")
	}

	if err := fs.Delete(ctx, "a.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load(ctx, "a.png"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("load after delete = %v", err)
	}
	if err := fs.Delete(ctx, "a.png"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("second delete = %v", err)
	}

	for _, bad := range []string{"../etc/passwd", "sub/a.png", ".env", ""} {
		if _, err := fs.Load(ctx, bad); !apperr.Is(err, apperr.KindBadRequest) {
			t.Errorf("Load(%q) = %v, want bad request", bad, err)
		}
	}
}

func TestContentType(t *testing.T) {
	if ContentType("x.JPG") != "image/jpeg" || ContentType("x.png") != "image/png" || ContentType("x.bin") != "application/octet-stream" {
		t.Error("unexpected content types")
	}
}

func TestNewS3RequiresSettings(t *testing.T) {
	if _, err := NewS3("", "eu", "k", "s", "b", ""); err == nil {
		t.Error("missing endpoint accepted")
	}
	s, err := NewS3("http://minio:9000/", "us-east-1", "k", "s", "funkos", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.URL("a.png"); got != "http://minio:9000/funkos/a.png" {
		t.Errorf("URL = %q", got)
	}
}
