package mcp

import (
	"context"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/valuesref/internal/pkgref"
)

const (
	// uriScheme is the custom URI scheme for valuesref resources.
	uriScheme = "valuesref://"

	schemaPrefix = uriScheme + "schema/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: schemaPrefix + "{ref}",
		Name:        "values-document",
		Description: "Annotated YAML values document of a URL-escaped package reference",
		MIMEType:    "text/yaml",
	}, s.handleSchemaResource)
}

// handleSchemaResource returns the annotated document of the package named
// in the URI.
func (s *Server) handleSchemaResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	raw := extractRef(req.Params.URI)
	if raw == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	ref, err := pkgref.Parse(raw)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	file, err := s.export(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: file.ContentType,
			Text:     file.Content,
		}},
	}, nil
}

// extractRef extracts the package reference from a URI like
// valuesref://schema/{ref}. The reference is URL-escaped.
func extractRef(uri string) string {
	if !strings.HasPrefix(uri, schemaPrefix) {
		return ""
	}
	ref, err := url.QueryUnescape(strings.TrimPrefix(uri, schemaPrefix))
	if err != nil {
		return ""
	}
	return ref
}

// SchemaURI returns the resource URI of a package reference string. Every
// reserved character is escaped so the reference fills one template variable.
func SchemaURI(ref string) string {
	return schemaPrefix + url.QueryEscape(ref)
}
