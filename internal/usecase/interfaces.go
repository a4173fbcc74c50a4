package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/i2y/apidocgen/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	// ErrInvalidEndpoint marks a leaf that lacks a field required to document it.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrManifestNotFound is returned by manifest stores when there is no manifest to update.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrMaxDepthExceeded marks a subtree nested deeper than the configured limit.
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")
)

// --- Input ---

// CollectionLoader reads and normalizes an API collection document.
type CollectionLoader interface {
	Load(ctx context.Context, path string) (*domain.Collection, error)
}

// --- Rendering ---

// DocumentRenderer turns one endpoint definition into page text.
// Implementations must not depend on state other than their arguments.
type DocumentRenderer interface {
	Render(name string, def domain.Definition, baseURL string) (string, error)
}

// --- Output ---

// DocumentStore persists rendered pages. relPath is slash-separated and relative to the
// store's root.
type DocumentStore interface {
	Write(ctx context.Context, relPath string, content string) error
}

// ManifestStore reads and rewrites the navigation array of a site manifest.
// Load returns ErrManifestNotFound when the manifest does not exist.
type ManifestStore interface {
	Load(ctx context.Context) ([]json.RawMessage, error)
	Save(ctx context.Context, navigation []json.RawMessage) error
}

// SummaryWriter records the outcome of a run.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, summary domain.RunSummary) error
}
