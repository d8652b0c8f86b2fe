package domain_test

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/ninesh-dev/ninesh/"

// TestDomainHasNoExternalDependencies verifies that the domain layer only
// depends on the standard library and on domain/entities.
func TestDomainHasNoExternalDependencies(t *testing.T) {
	fset := token.NewFileSet()
	for _, pkg := range []string{"entities", "errors", "ports"} {
		files, err := filepath.Glob(filepath.Join(pkg, "*.go"))
		require.NoError(t, err)
		require.NotEmpty(t, files, "no files in domain/%s", pkg)

		for _, file := range files {
			if strings.HasSuffix(file, "_test.go") {
				continue
			}
			checkFileImports(t, fset, file, pkg)
		}
	}
}

func checkFileImports(t *testing.T, fset *token.FileSet, filename, pkg string) {
	t.Helper()

	f, err := parser.ParseFile(fset, filename, nil, parser.ImportsOnly)
	require.NoError(t, err, "failed to parse %s", filename)

	for _, imp := range f.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)

		if strings.HasPrefix(importPath, modulePath) {
			assert.Equal(t, modulePath+"domain/entities", importPath,
				"domain/%s (%s) must not import %s", pkg, filepath.Base(filename), importPath)
			continue
		}

		// Anything with a dot in its first element is a third-party module.
		first, _, _ := strings.Cut(importPath, "/")
		assert.NotContains(t, first, ".",
			"domain/%s (%s) must not import third-party package %s", pkg, filepath.Base(filename), importPath)
	}
}
