package ports

import (
	"context"
	"io"
)

// Document categories understood by the store. Each category has its own
// extension allow-list and size cap.
const (
	DocRegistration   = "registration"    // .pdf only
	DocApplication    = "application"     // pdf/doc/docx/jpg/jpeg/png/gif/webp, 5MB
	DocProfilePicture = "profile_picture" // images only, 2MB
)

// StoredFile describes a file persisted by the document store.
type StoredFile struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// DocumentStore persists uploaded file bytes under generated
// collision-resistant names confined to a fixed root. The core records
// returned references; it never interprets file contents.
type DocumentStore interface {
	// Save validates originalName and size against the category rules,
	// then writes the bytes under a generated name. prefix scopes the
	// name (e.g. "cor_12").
	Save(category, prefix, originalName string, r io.Reader) (*StoredFile, error)
	// Delete removes a previously saved file. Unknown paths are an error;
	// paths escaping the root are rejected.
	Delete(path string) error
}

// Notifier hands messages to the out-of-scope delivery channel.
// Implementations are fire-and-forget; failures never surface.
type Notifier interface {
	SendResetLink(ctx context.Context, email, link string)
}
