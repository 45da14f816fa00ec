package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	yamldec "github.com/custodia-labs/valuesref/internal/adapters/driven/decoder/yaml"
	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// decode parses a JSON or YAML schema literal.
func decode(t *testing.T, src string) domain.Value {
	t.Helper()
	v, err := yamldec.NewDecoder().Decode([]byte(src))
	require.NoError(t, err)
	return v
}

// flatten resolves and flattens a schema literal.
func flatten(t *testing.T, src string) ([]domain.Line, *domain.PathIndex) {
	t.Helper()
	root, err := Resolve(decode(t, src), ResolveOptions{})
	require.NoError(t, err)
	lines, index, err := Flatten(root)
	require.NoError(t, err)
	return lines, index
}

// mockFetcher serves schemas from memory and counts calls.
type mockFetcher struct {
	mu     sync.Mutex
	source domain.SourceKind
	data   map[string][]byte // by ref key, or by uri for FetchRef
	errs   map[string]error
	calls  int
	refs   []string
}

func newMockFetcher(source domain.SourceKind) *mockFetcher {
	return &mockFetcher{
		source: source,
		data:   make(map[string][]byte),
		errs:   make(map[string]error),
	}
}

func (m *mockFetcher) Source() domain.SourceKind { return m.source }

func (m *mockFetcher) Fetch(_ context.Context, ref domain.PackageRef) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	key := ref.Key()
	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	data, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *mockFetcher) FetchRef(_ context.Context, _ domain.PackageRef, uri string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs = append(m.refs, uri)
	if err, ok := m.errs[uri]; ok {
		return nil, err
	}
	data, ok := m.data[uri]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func lineKeys(lines []domain.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Kind.String() + " " + l.Path.Key() + " " + l.Text
	}
	return out
}
