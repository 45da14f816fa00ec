package mcp

import (
	"context"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// mockSchemaService is a mock implementation of driving.SchemaService.
type mockSchemaService struct {
	doc     *domain.Document
	export  *domain.ExportFile
	matches []domain.PathMatch
	info    *domain.FieldInfo
	err     error

	lastRef   domain.PackageRef
	lastQuery string
	lastLimit int
	lastPath  string
}

func (m *mockSchemaService) Load(_ context.Context, ref domain.PackageRef, _ domain.LoadOptions) (*domain.Document, error) {
	m.lastRef = ref
	return m.doc, m.err
}

func (m *mockSchemaService) Export(_ context.Context, ref domain.PackageRef) (*domain.ExportFile, error) {
	m.lastRef = ref
	return m.export, m.err
}

func (m *mockSchemaService) Search(
	_ context.Context, ref domain.PackageRef, query string, limit int,
) ([]domain.PathMatch, error) {
	m.lastRef = ref
	m.lastQuery = query
	m.lastLimit = limit
	return m.matches, m.err
}

func (m *mockSchemaService) Lookup(_ context.Context, ref domain.PackageRef, path string) (*domain.FieldInfo, error) {
	m.lastRef = ref
	m.lastPath = path
	return m.info, m.err
}

// mockRenderer is a mock implementation of driving.DocumentRenderer.
type mockRenderer struct {
	content string
}

func (m *mockRenderer) Render(_ []domain.Line) []domain.Row { return nil }

func (m *mockRenderer) Serialize(_ []domain.Line) string { return m.content }

func (m *mockRenderer) Export(doc *domain.Document) domain.ExportFile {
	return domain.ExportFile{
		FileName:    doc.Ref.NormalizedName() + ".yaml",
		ContentType: domain.ExportContentType,
		Content:     m.content,
	}
}
