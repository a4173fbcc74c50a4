package fsstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/i2y/apidocgen/internal/usecase"
)

const navigationKey = "navigation"

// ManifestStore reads and rewrites the navigation array of a mint.json-style manifest.
// Every other top-level member is written back unchanged and in its original order.
type ManifestStore struct {
	path   string
	logger *slog.Logger
}

// NewManifestStore creates a store for the manifest file at path.
func NewManifestStore(path string, logger *slog.Logger) *ManifestStore {
	return &ManifestStore{
		path:   path,
		logger: logger.With("component", "manifest_store", slog.String("path", path)),
	}
}

// Load returns the entries of the manifest's navigation array. A manifest without a
// navigation member yields an empty list.
func (m *ManifestStore) Load(ctx context.Context) ([]json.RawMessage, error) {
	members, err := m.read()
	if err != nil {
		return nil, err
	}

	for _, mem := range members {
		if mem.key != navigationKey {
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(mem.raw, &entries); err != nil {
			return nil, fmt.Errorf("manifest %s: navigation is not an array: %w", m.path, err)
		}
		m.logger.Debug("Loaded manifest navigation", slog.Int("entries", len(entries)))
		return entries, nil
	}
	m.logger.Debug("Manifest has no navigation")
	return nil, nil
}

// Save replaces the manifest's navigation array, appending it when absent.
// The file is replaced atomically.
func (m *ManifestStore) Save(ctx context.Context, navigation []json.RawMessage) error {
	members, err := m.read()
	if err != nil {
		return err
	}

	if navigation == nil {
		navigation = []json.RawMessage{}
	}
	nav, err := marshalNoEscape(navigation)
	if err != nil {
		return fmt.Errorf("failed to encode navigation: %w", err)
	}

	replaced := false
	for i := range members {
		if members[i].key == navigationKey {
			members[i].raw = nav
			replaced = true
		}
	}
	if !replaced {
		members = append(members, member{key: navigationKey, raw: nav})
	}

	out, err := encodeMembers(members)
	if err != nil {
		return fmt.Errorf("failed to encode manifest %s: %w", m.path, err)
	}
	if err := writeFileAtomic(m.path, out); err != nil {
		return err
	}
	m.logger.Info("Manifest navigation updated", slog.Int("entries", len(navigation)))
	return nil
}

func (m *ManifestStore) read() ([]member, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", usecase.ErrManifestNotFound, m.path)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", m.path, err)
	}
	members, err := decodeMembers(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", m.path, err)
	}
	return members, nil
}

// member is one top-level key of a JSON object with its raw value.
type member struct {
	key string
	raw json.RawMessage
}

func decodeMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("top-level value is not an object")
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		members = append(members, member{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

func encodeMembers(members []member) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, mem := range members {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := marshalNoEscape(mem.key)
		if err != nil {
			return nil, err
		}
		compact.Write(key)
		compact.WriteByte(':')
		if err := json.Compact(&compact, mem.raw); err != nil {
			return nil, fmt.Errorf("member %q: %w", mem.key, err)
		}
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshalNoEscape encodes v without turning <, > and & into \u escapes.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(tmp.Name()))
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(fmt.Errorf("failed to write manifest: %w", err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}
