package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	yamldec "github.com/custodia-labs/valuesref/internal/adapters/driven/decoder/yaml"
	"github.com/custodia-labs/valuesref/internal/adapters/driven/fetch/file"
	"github.com/custodia-labs/valuesref/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/services"
)

const demoSchema = `{
	"title": "Demo chart",
	"type": "object",
	"required": ["image"],
	"properties": {
		"image": {
			"type": "object",
			"properties": {
				"tag": {"type": "string", "default": "stable", "description": "Image tag"}
			}
		},
		"replicas": {"type": "integer", "default": 1}
	}
}`

// setupTestServices wires real services over a schema file and returns
// the file path.
func setupTestServices(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, os.WriteFile(path, []byte(demoSchema), 0o600))

	schemas := services.NewSchemaService(yamldec.NewDecoder(), nil, file.NewFetcher())
	SetServices(Services{
		Schema:   schemas,
		Bookmark: services.NewBookmarkService(memory.NewBookmarkStore(), schemas),
		Renderer: services.NewDocumentRenderer(),
		Config:   memory.NewConfigStore(),
	})
	t.Cleanup(func() { SetServices(Services{}) })
	return path
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	searchLimit = domain.DefaultSearchLimit
	searchJSON = false
	lookupJSON = false
	exportOutput = ""
	renderColor = "auto"
	renderRefresh = false
	bookmarkLabel = ""

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
