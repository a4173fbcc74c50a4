package memrepo

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/i2y/apidocgen/internal/domain"
)

// InMemoryDocumentStore keeps generated documents in memory. It backs dry runs and tests.
// NOTE: Nothing is persisted; contents are lost when the process exits.
type InMemoryDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]string // Map relative path to document text
	summary   *domain.RunSummary
	logger    *slog.Logger
}

// NewInMemoryDocumentStore creates a new in-memory document store.
func NewInMemoryDocumentStore(logger *slog.Logger) *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		documents: make(map[string]string),
		logger:    logger.With("component", "mem_repo"),
	}
}

// Write stores content under relPath, replacing any earlier document at the same path.
func (r *InMemoryDocumentStore) Write(ctx context.Context, relPath string, content string) error {
	key, err := cleanPath(relPath)
	if err != nil {
		r.logger.Error("Rejected document path", slog.String("path", relPath), slog.Any("error", err))
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.documents[key]; exists {
		r.logger.Debug("Overwriting document", slog.String("path", key))
	}
	r.documents[key] = content
	r.logger.Debug("Stored document", slog.String("path", key), slog.Int("bytes", len(content)))
	return nil
}

// Get returns the document stored at relPath.
func (r *InMemoryDocumentStore) Get(relPath string) (string, bool) {
	key, err := cleanPath(relPath)
	if err != nil {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.documents[key]
	return doc, ok
}

// List returns the paths of all stored documents in lexical order.
func (r *InMemoryDocumentStore) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.documents))
	for p := range r.documents {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of stored documents.
func (r *InMemoryDocumentStore) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.documents)
}

// WriteSummary records the run summary in memory.
func (r *InMemoryDocumentStore) WriteSummary(ctx context.Context, summary domain.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := summary
	r.summary = &s
	r.logger.Debug("Stored run summary", slog.Int("generated_docs", summary.GeneratedDocs))
	return nil
}

// Summary returns the last recorded run summary.
func (r *InMemoryDocumentStore) Summary() (domain.RunSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.summary == nil {
		return domain.RunSummary{}, false
	}
	return *r.summary, true
}

func cleanPath(relPath string) (string, error) {
	if strings.TrimSpace(relPath) == "" {
		return "", fmt.Errorf("empty document path")
	}
	p := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	if path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("document path %q escapes the store root", relPath)
	}
	return p, nil
}
