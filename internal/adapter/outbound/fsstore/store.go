package fsstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/i2y/apidocgen/internal/domain"
)

// SummaryFileName is the name of the run summary written next to the generated documents.
const SummaryFileName = "_summary.json"

// DocumentStore writes generated documents below a root directory.
type DocumentStore struct {
	root   string
	logger *slog.Logger
}

// NewDocumentStore creates a store rooted at root. The directory is created on first write.
func NewDocumentStore(root string, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		root:   root,
		logger: logger.With("component", "fs_store", slog.String("root", root)),
	}
}

// Write stores content at relPath, creating parent directories as needed and replacing any
// existing file.
func (s *DocumentStore) Write(ctx context.Context, relPath string, content string) error {
	target, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", relPath, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	s.logger.Debug("Wrote document", slog.String("path", relPath))
	return nil
}

// WriteSummary writes the run summary as indented JSON to <root>/_summary.json.
func (s *DocumentStore) WriteSummary(ctx context.Context, summary domain.RunSummary) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(s.root, SummaryFileName)
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	s.logger.Info("Summary saved", slog.String("path", target))
	return nil
}

func (s *DocumentStore) resolve(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.TrimSpace(relPath) == "" || filepath.IsAbs(clean) || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid document path %q", relPath)
	}
	return filepath.Join(s.root, clean), nil
}
