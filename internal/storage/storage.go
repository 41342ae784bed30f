// Package storage keeps uploaded funko images, either on the local disk or
// in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"funkosrest/internal/apperr"
)

// AllowedExtensions are the image types accepted for upload.
var AllowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

type Service interface {
	Store(ctx context.Context, filename, contentType string, body io.Reader, size int64) error
	Load(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
	// URL is the public address of filename; URL("") is the common prefix.
	URL(filename string) string
}

// StoredName builds the name an upload is kept under:
// <slug(prefix)>-<yyyy-MM-dd-HH-mm-ss-micro>.<ext>.
func StoredName(prefix, original string, now time.Time) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(original), "."))
	if _, ok := AllowedExtensions[ext]; !ok {
		return "", apperr.BadRequest("Tipo de fichero no permitido: " + original)
	}
	stamp := now.Format("2006-01-02-15-04-05") + fmt.Sprintf("-%06d", now.Nanosecond()/1000)
	return slug.Make(prefix) + "-" + stamp + "." + ext, nil
}

// OwnedBy reports whether name was produced by StoredName for prefix.
func OwnedBy(name, prefix string) bool {
	return strings.HasPrefix(name, slug.Make(prefix)+"-")
}

// ContentType returns the content type for filename's extension.
func ContentType(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FilenameFromURL returns the stored filename behind url when url points
// into s.
func FilenameFromURL(s Service, url string) (string, bool) {
	prefix := s.URL("")
	if prefix == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if checkName(name) != nil {
		return "", false
	}
	return name, true
}

// checkName rejects names that could escape the storage root.
func checkName(filename string) error {
	if filename == "" || filename != path.Base(filename) || strings.Contains(filename, `\`) || strings.HasPrefix(filename, ".") {
		return apperr.BadRequest("Nombre de fichero no válido: " + filename)
	}
	return nil
}

func notFound(filename string) error {
	return apperr.NotFound("Fichero no encontrado: " + filename)
}
