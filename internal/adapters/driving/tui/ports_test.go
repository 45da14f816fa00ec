package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yamldec "github.com/custodia-labs/valuesref/internal/adapters/driven/decoder/yaml"
	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/services"
)

// testRef points at a local schema so the viewer may watch it.
var testRef = domain.PackageRef{Source: domain.SourceFile, Path: "/charts/demo.json"}

// testSchema has a title, a nested object and thirty string fields.
func testSchema() string {
	var b strings.Builder
	b.WriteString(`{"title": "Demo chart", "type": "object", "properties": {`)
	b.WriteString(`"image": {"type": "object", "properties": {"tag": {"type": "string", "default": "stable"}}}`)
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, `, "f%02d": {"type": "string"}`, i)
	}
	b.WriteString(`}}`)
	return b.String()
}

// testDocument resolves and flattens testSchema.
func testDocument(t *testing.T) *domain.Document {
	t.Helper()
	v, err := yamldec.NewDecoder().Decode([]byte(testSchema()))
	require.NoError(t, err)
	root, err := services.Resolve(v, services.ResolveOptions{})
	require.NoError(t, err)
	lines, index, err := services.Flatten(root)
	require.NoError(t, err)
	return &domain.Document{
		ID:    domain.DocumentID(testRef, []byte(testSchema())),
		Ref:   testRef,
		Title: "Demo chart",
		Root:  root,
		Lines: lines,
		Index: index,
	}
}

// MockSchemaService implements driving.SchemaService for testing.
type MockSchemaService struct {
	mu       sync.Mutex
	LoadFunc func(ctx context.Context, ref domain.PackageRef, opts domain.LoadOptions) (*domain.Document, error)
	loads    []domain.LoadOptions
}

func (m *MockSchemaService) Load(
	ctx context.Context, ref domain.PackageRef, opts domain.LoadOptions,
) (*domain.Document, error) {
	m.mu.Lock()
	m.loads = append(m.loads, opts)
	m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, ref, opts)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSchemaService) Export(context.Context, domain.PackageRef) (*domain.ExportFile, error) {
	return nil, domain.ErrNotFound
}

func (m *MockSchemaService) Search(context.Context, domain.PackageRef, string, int) ([]domain.PathMatch, error) {
	return nil, nil
}

func (m *MockSchemaService) Lookup(context.Context, domain.PackageRef, string) (*domain.FieldInfo, error) {
	return nil, domain.ErrLookupMiss
}

// Loads returns the options of every Load call.
func (m *MockSchemaService) Loads() []domain.LoadOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.LoadOptions(nil), m.loads...)
}

// MockBookmarkService implements driving.BookmarkService for testing.
type MockBookmarkService struct {
	AddFunc func(ctx context.Context, ref domain.PackageRef, path, label string) (*domain.Bookmark, error)
}

func (m *MockBookmarkService) Add(
	ctx context.Context, ref domain.PackageRef, path, label string,
) (*domain.Bookmark, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, ref, path, label)
	}
	return &domain.Bookmark{ID: "bm-1", PackageKey: ref.Key(), Ref: ref, Path: path, Label: label}, nil
}

func (m *MockBookmarkService) List(context.Context, *domain.PackageRef) ([]domain.Bookmark, error) {
	return nil, nil
}

func (m *MockBookmarkService) Remove(context.Context, string) error {
	return nil
}

// MockClipboard records copied text.
type MockClipboard struct {
	Text string
	Err  error
}

func (m *MockClipboard) Copy(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Text = text
	return nil
}

// MockWatcher hands out a channel the test controls.
type MockWatcher struct {
	Changes chan struct{}
	Err     error
	Path    string
}

func (m *MockWatcher) Watch(_ context.Context, path string) (<-chan struct{}, error) {
	m.Path = path
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Changes, nil
}

// newTestPorts wires a real navigator and renderer around a schema
// service that serves testDocument.
func newTestPorts(t *testing.T) *Ports {
	t.Helper()
	doc := testDocument(t)
	return &Ports{
		Schema: &MockSchemaService{
			LoadFunc: func(context.Context, domain.PackageRef, domain.LoadOptions) (*domain.Document, error) {
				return doc, nil
			},
		},
		Renderer:  services.NewDocumentRenderer(),
		Navigator: services.NewNavigator(0),
		Bookmarks: &MockBookmarkService{},
		Clipboard: &MockClipboard{},
	}
}

func TestPorts_Validate(t *testing.T) {
	full := func() *Ports {
		return &Ports{
			Schema:    &MockSchemaService{},
			Renderer:  services.NewDocumentRenderer(),
			Navigator: services.NewNavigator(0),
		}
	}

	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing schema", func() *Ports { p := full(); p.Schema = nil; return p }(), ErrMissingSchemaService},
		{"missing renderer", func() *Ports { p := full(); p.Renderer = nil; return p }(), ErrMissingRenderer},
		{"missing navigator", func() *Ports { p := full(); p.Navigator = nil; return p }(), ErrMissingNavigator},
		{"optional ports unset", full(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
