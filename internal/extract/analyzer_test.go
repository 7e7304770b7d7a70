package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(tag string) *Analyzer {
	return NewAnalyzer(tag, NewNamer("/project", ""))
}

const analyzerFixture = `import { css } from "zero-css";
import { primary, spacing as gap } from "./tokens";
import Default from "./x";
import * as ns from "./y";

export const button = css` + "`color: red;`" + `;
const card = css` + "`padding: ${gap};`" + `;
const size = 12;
const label = 'hello';
export { card as Card, size };

render(css` + "`margin: 0;`" + `);

function f() {
  const button = css` + "`color: blue;`" + `;
}
`

func TestAnalyzeDeclarations(t *testing.T) {
	a := newTestAnalyzer("css")
	info, err := a.Analyze(context.Background(), "/project/src/a.js", analyzerFixture)
	require.NoError(t, err)

	require.Len(t, info.Declarations, 4)

	names := []string{"button", "card", "", "button"}
	for i, d := range info.Declarations {
		assert.Equal(t, i, d.Index)
		assert.Equal(t, names[i], d.VariableName)
		assert.Equal(t, a.namer.ClassName("/project/src/a.js", i, names[i]), d.ClassName)
	}

	first := info.Declarations[0]
	assert.Equal(t, "css`color: red;`", analyzerFixture[first.Start:first.End])
	assert.Equal(t, 6, first.Line)
	assert.Equal(t, 23, first.Column)
	assert.False(t, first.HasInterpolations)
	assert.Equal(t, []string{"color: red;"}, first.Quasis)

	second := info.Declarations[1]
	assert.True(t, second.HasInterpolations)
	assert.Equal(t, []string{"padding: ", ";"}, second.Quasis)
	require.Len(t, second.Expressions, 1)
	assert.Equal(t, "gap", second.Expressions[0].Name)
	assert.True(t, second.Expressions[0].IsIdentifier())

	// Same class name is never produced twice
	seen := map[string]bool{}
	for _, d := range info.Declarations {
		assert.False(t, seen[d.ClassName], "duplicate class %s", d.ClassName)
		seen[d.ClassName] = true
	}
}

func TestAnalyzeBindings(t *testing.T) {
	a := newTestAnalyzer("css")
	info, err := a.Analyze(context.Background(), "/project/src/a.js", analyzerFixture)
	require.NoError(t, err)

	decls := info.Declarations

	// The nested `button` is the last write for that name
	assert.Equal(t, decls[3].ClassName, info.LocalIdentifiers["button"])
	assert.Equal(t, decls[1].ClassName, info.LocalIdentifiers["card"])
	assert.Equal(t, "12", info.LocalIdentifiers["size"])
	assert.Equal(t, "hello", info.LocalIdentifiers["label"])

	assert.Equal(t, map[string]ImportBinding{
		"primary": {Source: "./tokens", ImportedName: "primary"},
		"gap":     {Source: "./tokens", ImportedName: "spacing"},
		"css":     {Source: "zero-css", ImportedName: "css"},
	}, info.ImportedIdentifiers)

	assert.Equal(t, decls[1].ClassName, info.ExportNameToValue["Card"])
	assert.Equal(t, "12", info.ExportNameToValue["size"])
	assert.Contains(t, info.ExportNameToValue, "button")
	assert.NotContains(t, info.ExportNameToValue, "card")
	assert.NotContains(t, info.ExportNameToValue, "label")
}

func TestAnalyzeUnsupportedExports(t *testing.T) {
	src := "export { a } from './b';\n" +
		"export * from './c';\n" +
		"export default css`color: red;`;\n"

	info, err := newTestAnalyzer("css").Analyze(context.Background(), "/project/x.js", src)
	require.NoError(t, err)

	assert.Empty(t, info.ExportNameToValue)
	require.Len(t, info.Declarations, 1)
	assert.Empty(t, info.Declarations[0].VariableName)
}

func TestAnalyzeOnlyRecognizedTag(t *testing.T) {
	src := "const a = styled.div`color: red;`;\n" +
		"const b = html`<p></p>`;\n" +
		"const c = css(`color: red;`);\n" +
		"const d = style`color: red;`;\n"

	info, err := newTestAnalyzer("style").Analyze(context.Background(), "/project/x.js", src)
	require.NoError(t, err)

	require.Len(t, info.Declarations, 1)
	assert.Equal(t, "d", info.Declarations[0].VariableName)
	assert.Equal(t, "style", newTestAnalyzer("style").Tag())
	assert.Equal(t, DefaultTagName, newTestAnalyzer("").Tag())
}

func TestAnalyzeTemplateSegments(t *testing.T) {
	src := "const a = css`${x}${y}`;\n" +
		"const b = css`a: ${cond ? 1 : 2}; b: ${fn()};`;\n"

	info, err := newTestAnalyzer("css").Analyze(context.Background(), "/project/x.js", src)
	require.NoError(t, err)
	require.Len(t, info.Declarations, 2)

	assert.Equal(t, []string{"", "", ""}, info.Declarations[0].Quasis)

	b := info.Declarations[1]
	assert.Equal(t, []string{"a: ", "; b: ", ";"}, b.Quasis)
	require.Len(t, b.Expressions, 2)
	assert.Equal(t, "ternary_expression", b.Expressions[0].Kind)
	assert.Equal(t, "call_expression", b.Expressions[1].Kind)
	assert.False(t, b.Expressions[0].IsIdentifier())
}

func TestAnalyzeGrammarByExtension(t *testing.T) {
	typed := "const a: string = css`color: red;`;\ninterface Props { size: number }\n"

	tests := []struct {
		name    string
		path    string
		source  string
		wantErr bool
	}{
		{name: "typescript", path: "/project/a.ts", source: typed},
		{name: "typescript module", path: "/project/a.mts", source: typed},
		{name: "typescript in javascript file", path: "/project/a.js", source: typed, wantErr: true},
		{
			name:   "tsx",
			path:   "/project/a.tsx",
			source: "const box: string = css`color: red;`;\nexport const A = () => <div className={box} />;\n",
		},
		{
			name:   "jsx in javascript",
			path:   "/project/a.jsx",
			source: "const box = css`color: red;`;\nexport const A = () => <div className={box} />;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := newTestAnalyzer("css").Analyze(context.Background(), tt.path, tt.source)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrParse))
				return
			}
			require.NoError(t, err)
			require.Len(t, info.Declarations, 1)
		})
	}
}

func TestAnalyzeParseError(t *testing.T) {
	_, err := newTestAnalyzer("css").Analyze(context.Background(), "/project/bad.js", "const a = css`x` +;\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "/project/bad.js:1:")
}

func TestAnalyzeSourceHash(t *testing.T) {
	a := newTestAnalyzer("css")
	one, err := a.Analyze(context.Background(), "/project/a.js", "const a = 1;\n")
	require.NoError(t, err)
	two, err := a.Analyze(context.Background(), "/project/a.js", "const a = 2;\n")
	require.NoError(t, err)

	assert.NotEqual(t, one.SourceHash, two.SourceHash)
	assert.Empty(t, one.Declarations)
}

func TestAnalyzeParseErrorPosition(t *testing.T) {
	_, err := newTestAnalyzer("css").Analyze(context.Background(), "/project/bad.js", "const a = 1;\nconst b = ;\n")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/project/bad.js", perr.Path)
	assert.Equal(t, 2, perr.Line)
}
