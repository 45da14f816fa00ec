package driving

import "github.com/custodia-labs/valuesref/internal/core/domain"

// DocumentRenderer turns a Line sequence into display rows and plain text.
type DocumentRenderer interface {
	// Render returns the display rows of lines.
	Render(lines []domain.Line) []domain.Row

	// Serialize returns the YAML export of lines.
	Serialize(lines []domain.Line) string

	// Export serializes doc into a downloadable file.
	Export(doc *domain.Document) domain.ExportFile
}
