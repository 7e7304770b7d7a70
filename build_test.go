package zerocss

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/tokens.ts": "export const primary = 'red';\n",
		"src/button.ts": "import { css } from 'zero-css';\nimport { primary } from './tokens';\n" +
			"export const button = css`\n  color: ${primary};\n  padding: 4px;\n`;\n",
		"src/plain.js": "export const answer = 42;\n",
		"src/dynamic.ts": "import { css } from 'zero-css';\n" +
			"export const d = css`width: ${window.innerWidth}px;`;\n",
	})
	outDir := filepath.Join(root, "dist")

	result, err := Build(context.Background(), BuildConfig{
		Options:  Options{Root: root},
		OutDir:   outDir,
		Manifest: "zerocss-manifest.json",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.FilesScanned)
	assert.Equal(t, 1, result.FilesTransformed)
	assert.Equal(t, 1, result.StyleSheets)
	assert.Equal(t, 1, result.ClassesGenerated)
	assert.Equal(t, 1, result.Unresolved)
	assert.Equal(t, StyleStats{Rules: 1, Declarations: 2, Bytes: result.Stats.Bytes}, result.Stats)

	var button BuildOutput
	for _, out := range result.Outputs {
		if out.Source == "src/button.ts" {
			button = out
		}
	}
	require.NotEmpty(t, button.CSS)
	assert.Regexp(t, `^src/button\.ts\.[0-9a-f]{8}\.css$`, button.CSS)

	code := readFile(t, filepath.Join(outDir, "src", "button.ts"))
	cssName := filepath.Base(button.CSS)
	assert.True(t, strings.HasPrefix(code, "import \"./"+cssName+"\";\n"), code)
	assert.NotContains(t, code, "zero-css")
	assert.Contains(t, code, "export const button = '"+button.Classes[0]+"';")

	css := readFile(t, filepath.Join(outDir, filepath.FromSlash(button.CSS)))
	assert.Equal(t, "."+button.Classes[0]+" {\n  color: red;\n  padding: 4px;\n}\n", css)

	// Untouched files are copied verbatim
	assert.Equal(t, "export const answer = 42;\n", readFile(t, filepath.Join(outDir, "src", "plain.js")))
	assert.Contains(t, readFile(t, filepath.Join(outDir, "src", "dynamic.ts")), "import { css } from 'zero-css';")

	var manifest map[string]BuildOutput
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(outDir, "zerocss-manifest.json"))), &manifest))
	assert.Len(t, manifest, 4)
	assert.Equal(t, button.Classes, manifest["src/button.ts"].Classes)
	assert.Equal(t, 1, manifest["src/dynamic.ts"].Unresolved)
}

func TestBuildIsRepeatable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.ts": "const a = css`color: red;`;\n",
	})
	outDir := filepath.Join(root, "out")

	builder, err := NewBuilder(BuildConfig{Options: Options{Root: root}, OutDir: outDir})
	require.NoError(t, err)

	first, err := builder.Run(context.Background())
	require.NoError(t, err)
	first0 := readFile(t, filepath.Join(outDir, "a.ts"))

	// The output directory inside the root is not scanned again
	second, err := builder.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.FilesScanned, second.FilesScanned)
	assert.Equal(t, first0, readFile(t, filepath.Join(outDir, "a.ts")))
	assert.Len(t, builder.Plugin().Modules().IDs(), 1)
}

func TestBuildParseFailure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"good.ts": "const a = css`color: red;`;\n",
		"bad.ts":  "const b = css`x` +;\n",
	})
	outDir := t.TempDir()

	result, err := Build(context.Background(), BuildConfig{Options: Options{Root: root}, OutDir: outDir})
	require.Error(t, err)
	require.NotNil(t, result)

	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "bad.ts")
	assert.FileExists(t, filepath.Join(outDir, "good.ts"))
	assert.NoFileExists(t, filepath.Join(outDir, "bad.ts"))
}

func TestBuildConfigErrors(t *testing.T) {
	root := t.TempDir()

	_, err := Build(context.Background(), BuildConfig{Options: Options{Root: root}})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Build(context.Background(), BuildConfig{Options: Options{Root: root}, OutDir: root})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Build(context.Background(), BuildConfig{Options: Options{Root: root}, OutDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoFiles)
}
