package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/pkgref"
)

const packageHelp = "package URL (pkg:artifacthub/<name>@<version>?id=<packageID> or " +
	"pkg:github/<owner>/<repo>@<ref>#<path>) or a local file path"

// SearchPathsInput is the input schema for the search_paths tool.
type SearchPathsInput struct {
	Package string `json:"package" jsonschema:"package URL or local file path"`
	Query   string `json:"query" jsonschema:"case-insensitive substring of a field path"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// SearchPathsOutput is the output schema for the search_paths tool.
type SearchPathsOutput struct {
	Paths []string `json:"paths"`
	Count int      `json:"count"`
}

// LookupPathInput is the input schema for the lookup_path tool.
type LookupPathInput struct {
	Package string `json:"package" jsonschema:"package URL or local file path"`
	Path    string `json:"path" jsonschema:"field path such as image.tag or env[].name"`
}

// LookupPathOutput is the output schema for the lookup_path tool.
type LookupPathOutput struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Value       string `json:"value,omitempty"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Line        int    `json:"line"`
}

// RenderSchemaInput is the input schema for the render_schema tool.
type RenderSchemaInput struct {
	Package string `json:"package" jsonschema:"package URL or local file path"`
}

// RenderSchemaOutput is the output schema for the render_schema tool.
type RenderSchemaOutput struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_paths",
		Description: "Find field paths of a Helm values schema. Package: " + packageHelp,
	}, s.handleSearchPaths)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_path",
		Description: "Describe one field of a Helm values schema: type, default, requiredness and description",
	}, s.handleLookupPath)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_schema",
		Description: "Return the annotated YAML values document of a Helm values schema",
	}, s.handleRenderSchema)
}

// handleSearchPaths handles the search_paths tool invocation.
func (s *Server) handleSearchPaths(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPathsInput,
) (*mcp.CallToolResult, SearchPathsOutput, error) {
	ref, err := pkgref.Parse(input.Package)
	if err != nil {
		return nil, SearchPathsOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	matches, err := s.ports.Schema.Search(ctx, ref, input.Query, limit)
	if err != nil {
		return nil, SearchPathsOutput{}, err
	}

	output := SearchPathsOutput{
		Paths: make([]string, len(matches)),
		Count: len(matches),
	}
	for i, m := range matches {
		output.Paths[i] = m.Path
	}
	return nil, output, nil
}

// handleLookupPath handles the lookup_path tool invocation.
func (s *Server) handleLookupPath(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupPathInput,
) (*mcp.CallToolResult, LookupPathOutput, error) {
	ref, err := pkgref.Parse(input.Package)
	if err != nil {
		return nil, LookupPathOutput{}, err
	}

	info, err := s.ports.Schema.Lookup(ctx, ref, input.Path)
	if errors.Is(err, domain.ErrLookupMiss) {
		return nil, LookupPathOutput{}, fmt.Errorf("no field at %q; use search_paths to find valid paths", input.Path)
	}
	if err != nil {
		return nil, LookupPathOutput{}, err
	}

	return nil, LookupPathOutput{
		Path:        info.Path,
		Type:        info.Type,
		Value:       info.Value,
		Required:    info.Required,
		Description: info.Description,
		Line:        info.Ordinal + 1,
	}, nil
}

// handleRenderSchema handles the render_schema tool invocation.
func (s *Server) handleRenderSchema(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderSchemaInput,
) (*mcp.CallToolResult, RenderSchemaOutput, error) {
	ref, err := pkgref.Parse(input.Package)
	if err != nil {
		return nil, RenderSchemaOutput{}, err
	}

	file, err := s.export(ctx, ref)
	if err != nil {
		return nil, RenderSchemaOutput{}, err
	}
	return nil, RenderSchemaOutput{FileName: file.FileName, Content: file.Content}, nil
}

// export serializes the document of ref with the configured renderer.
func (s *Server) export(ctx context.Context, ref domain.PackageRef) (*domain.ExportFile, error) {
	if s.ports.Renderer == nil {
		return s.ports.Schema.Export(ctx, ref)
	}
	doc, err := s.ports.Schema.Load(ctx, ref, domain.LoadOptions{})
	if err != nil {
		return nil, err
	}
	file := s.ports.Renderer.Export(doc)
	return &file, nil
}
