package services

import (
	"strings"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
)

// Ensure DocumentRenderer implements the interface.
var _ driving.DocumentRenderer = (*DocumentRenderer)(nil)

const indentUnit = "  "

// DocumentRenderer produces display rows and the YAML export of a Line
// sequence. It holds no state.
type DocumentRenderer struct{}

// NewDocumentRenderer creates a new renderer.
func NewDocumentRenderer() *DocumentRenderer {
	return &DocumentRenderer{}
}

// Render returns the display rows of lines.
// A key line absorbs the value and badge lines of the same field, and a
// "-" line absorbs the key line that follows it.
func (r *DocumentRenderer) Render(lines []domain.Line) []domain.Row {
	rows := make([]domain.Row, 0, len(lines))
	for i := 0; i < len(lines); {
		l := lines[i]
		row := domain.Row{Ordinal: i, Depth: l.Depth, Path: l.Path.Key(), Alt: l.Alt}
		switch l.Kind {
		case domain.LineComment:
			row.Tokens = []domain.Token{{Kind: domain.TokenComment, Text: commentText(l.Text)}}
			i++
		case domain.LineTypeBadge:
			row.Tokens = []domain.Token{{Kind: domain.TokenBadge, Text: commentText(l.Text)}}
			i++
		case domain.LineValue:
			row.Tokens = []domain.Token{{Kind: domain.TokenValue, Text: l.Text}}
			i++
		case domain.LinePunctuation:
			row.Tokens = []domain.Token{{Kind: domain.TokenPunct, Text: l.Text}}
			i++
			if i < len(lines) && lines[i].Kind == domain.LineKey && lines[i].Depth == l.Depth+1 {
				row.Tokens[0].Text += " "
				row.Path = lines[i].Path.Key()
				var tokens []domain.Token
				tokens, i = keyTokens(lines, i)
				row.Tokens = append(row.Tokens, tokens...)
			}
		case domain.LineKey:
			row.Tokens, i = keyTokens(lines, i)
		default:
			i++
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// keyTokens builds the tokens of the key line at i and returns the index
// of the first line it did not absorb.
func keyTokens(lines []domain.Line, i int) ([]domain.Token, int) {
	key := lines[i]
	var value, badge string
	j := i + 1
	for ; j < len(lines); j++ {
		l := lines[j]
		if l.Depth != key.Depth || !l.Path.Equal(key.Path) {
			break
		}
		if l.Kind == domain.LineValue && value == "" {
			value = l.Text
		} else if l.Kind == domain.LineTypeBadge && badge == "" {
			badge = l.Text
		} else {
			break
		}
	}

	tokens := []domain.Token{
		{Kind: domain.TokenKey, Text: domain.QuoteScalar(key.Text)},
		{Kind: domain.TokenPunct, Text: ":"},
	}
	if value != "" {
		tokens = append(tokens, domain.Token{Kind: domain.TokenValue, Text: " " + value})
	}
	marker := "optional"
	if key.IsRequired {
		marker = "required"
	}
	if badge != "" {
		tokens = append(tokens,
			domain.Token{Kind: domain.TokenBadge, Text: "  # " + badge + ","},
			domain.Token{Kind: domain.TokenRequired, Text: " " + marker},
		)
	} else {
		tokens = append(tokens, domain.Token{Kind: domain.TokenRequired, Text: "  # " + marker})
	}
	return tokens, j
}

func commentText(s string) string {
	if s == "" {
		return "#"
	}
	return "# " + s
}

// Serialize returns the YAML export of lines. Rows of non-primary
// combinator branches are commented out so the result always parses.
func (r *DocumentRenderer) Serialize(lines []domain.Line) string {
	var b strings.Builder
	for _, row := range r.Render(lines) {
		b.WriteString(strings.Repeat(indentUnit, row.Depth))
		text := row.Text()
		if row.Alt && !strings.HasPrefix(text, "#") {
			b.WriteString("# ")
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Export serializes doc into a downloadable YAML file.
func (r *DocumentRenderer) Export(doc *domain.Document) domain.ExportFile {
	return domain.ExportFile{
		FileName:    doc.Ref.NormalizedName() + ".yaml",
		ContentType: domain.ExportContentType,
		Content:     r.Serialize(doc.Lines),
	}
}
