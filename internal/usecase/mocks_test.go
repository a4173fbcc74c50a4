package usecase_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/i2y/apidocgen/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// MockCollectionLoader is a mock implementation of the CollectionLoader interface.
type MockCollectionLoader struct {
	mock.Mock
}

func (m *MockCollectionLoader) Load(ctx context.Context, path string) (*domain.Collection, error) {
	args := m.Called(ctx, path)
	var c *domain.Collection
	if v := args.Get(0); v != nil {
		c = v.(*domain.Collection)
	}
	return c, args.Error(1)
}

// MockDocumentRenderer is a mock implementation of the DocumentRenderer interface.
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) Render(name string, def domain.Definition, baseURL string) (string, error) {
	args := m.Called(name, def, baseURL)
	return args.String(0), args.Error(1)
}

// MockDocumentStore is a mock implementation of the DocumentStore interface.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Write(ctx context.Context, relPath string, content string) error {
	args := m.Called(ctx, relPath, content)
	return args.Error(0)
}

// MockManifestStore is a mock implementation of the ManifestStore interface.
type MockManifestStore struct {
	mock.Mock
}

func (m *MockManifestStore) Load(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	var entries []json.RawMessage
	if v := args.Get(0); v != nil {
		entries = v.([]json.RawMessage)
	}
	return entries, args.Error(1)
}

func (m *MockManifestStore) Save(ctx context.Context, navigation []json.RawMessage) error {
	args := m.Called(ctx, navigation)
	return args.Error(0)
}

// MockSummaryWriter is a mock implementation of the SummaryWriter interface.
type MockSummaryWriter struct {
	mock.Mock
}

func (m *MockSummaryWriter) WriteSummary(ctx context.Context, summary domain.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// Test tree helpers.

func folder(name string, children ...*domain.Node) *domain.Node {
	return &domain.Node{Name: name, Children: children}
}

func request(name, method, path string) *domain.Node {
	return &domain.Node{Name: name, Definition: &domain.Definition{
		Dialect: domain.DialectCollection,
		Method:  method,
		Host:    domain.BaseURLPlaceholder,
		Path:    path,
	}}
}

func api(name, method, path string) *domain.Node {
	return &domain.Node{Name: name, Definition: &domain.Definition{
		Dialect: domain.DialectDefinition,
		Method:  method,
		Path:    path,
	}}
}
