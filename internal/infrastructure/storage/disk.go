// Package storage implements the document store on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

const (
	maxApplicationFileSize = 5 << 20
	maxProfilePictureSize  = 2 << 20
	maxRegistrationSize    = 5 << 20
)

type categoryRule struct {
	extensions map[string]bool
	maxSize    int64
}

var categoryRules = map[string]categoryRule{
	ports.DocRegistration: {
		extensions: map[string]bool{".pdf": true},
		maxSize:    maxRegistrationSize,
	},
	ports.DocApplication: {
		extensions: map[string]bool{
			".pdf": true, ".doc": true, ".docx": true,
			".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
		},
		maxSize: maxApplicationFileSize,
	},
	ports.DocProfilePicture: {
		extensions: map[string]bool{
			".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
		},
		maxSize: maxProfilePictureSize,
	},
}

// DiskStore writes uploads under root/<category>/ with generated names.
// Paths handed back to callers are relative to root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &DiskStore{root: abs}, nil
}

func (s *DiskStore) Save(category, prefix, originalName string, r io.Reader) (*ports.StoredFile, error) {
	rule, ok := categoryRules[category]
	if !ok {
		return nil, fmt.Errorf("unknown document category %q", category)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !rule.extensions[ext] {
		return nil, domain.NewValidationError(fmt.Sprintf("file type %q is not allowed", ext))
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create category dir: %w", err)
	}

	name := generateName(prefix, originalName)
	full := filepath.Join(dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	// Cap the copy one byte past the limit so oversize is detectable.
	n, err := io.Copy(f, io.LimitReader(r, rule.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if n > rule.maxSize {
		_ = os.Remove(full)
		return nil, domain.NewValidationError(fmt.Sprintf("file exceeds the %dMB limit", rule.maxSize>>20))
	}

	return &ports.StoredFile{
		Name:     name,
		Path:     filepath.ToSlash(filepath.Join(category, name)),
		Size:     n,
		MimeType: mimeTypeFor(ext),
	}, nil
}

// Delete removes a stored file by its relative path. Paths that resolve
// outside the root are rejected.
func (s *DiskStore) Delete(path string) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes the upload root", path)
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// generateName builds a collision-resistant name keeping the original
// extension: <prefix>_<unix>_<uuid><ext>.
func generateName(prefix, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := sanitize(prefix)
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s_%d_%s%s", base, time.Now().Unix(), uuid.NewString(), ext)
}

// sanitize strips everything but letters, digits, dash and underscore.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func mimeTypeFor(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
