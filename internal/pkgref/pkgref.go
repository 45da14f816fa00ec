// Package pkgref parses the package references accepted on the command line
// and by the MCP server.
//
// A reference is either a package URL or a plain file path:
//
//	pkg:artifacthub/ingress-nginx@4.10.0?id=<packageID>
//	pkg:github/<owner>/<repo>@<ref>#<path/to/values.schema.json>
//	./values.schema.json
package pkgref

import (
	"fmt"
	"path/filepath"
	"strings"

	packageurl "github.com/package-url/packageurl-go"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

const (
	purlPrefix = "pkg:"

	// QualifierID carries the Artifact Hub package identifier.
	QualifierID = "id"
)

// Parse converts s into a PackageRef. Anything not starting with "pkg:" is
// treated as a local file path.
func Parse(s string) (domain.PackageRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.PackageRef{}, fmt.Errorf("%w: empty package reference", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(s, purlPrefix) {
		return parseFile(s)
	}

	p, err := packageurl.FromString(s)
	if err != nil {
		return domain.PackageRef{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var ref domain.PackageRef
	switch domain.SourceKind(p.Type) {
	case domain.SourceArtifactHub:
		ref = domain.PackageRef{
			Source:    domain.SourceArtifactHub,
			PackageID: p.Qualifiers.Map()[QualifierID],
			Version:   p.Version,
			Name:      p.Name,
		}
	case domain.SourceGitHub:
		ref = domain.PackageRef{
			Source: domain.SourceGitHub,
			Owner:  p.Namespace,
			Repo:   p.Name,
			GitRef: p.Version,
			Path:   p.Subpath,
		}
	case domain.SourceFile:
		return parseFile(strings.Trim(p.Namespace+"/"+p.Name, "/"))
	default:
		return domain.PackageRef{}, fmt.Errorf("%w: package type %q", domain.ErrUnsupportedType, p.Type)
	}

	if err := ref.Validate(); err != nil {
		return domain.PackageRef{}, err
	}
	return ref, nil
}

func parseFile(path string) (domain.PackageRef, error) {
	path = strings.TrimPrefix(path, "file://")
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	ref := domain.PackageRef{Source: domain.SourceFile, Path: path}
	return ref, ref.Validate()
}

// Format returns the canonical string form of ref, the inverse of Parse.
func Format(ref domain.PackageRef) string {
	switch ref.Source {
	case domain.SourceArtifactHub:
		var q packageurl.Qualifiers
		if ref.PackageID != "" {
			q = packageurl.QualifiersFromMap(map[string]string{QualifierID: ref.PackageID})
		}
		name := ref.Name
		if name == "" {
			name = ref.PackageID
		}
		return packageurl.NewPackageURL(string(domain.SourceArtifactHub), "", name, ref.Version, q, "").ToString()
	case domain.SourceGitHub:
		return packageurl.NewPackageURL(string(domain.SourceGitHub), ref.Owner, ref.Repo, ref.GitRef, nil, ref.Path).ToString()
	default:
		return ref.Path
	}
}
