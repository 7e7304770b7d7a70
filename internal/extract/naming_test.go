package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassNameDeterministic(t *testing.T) {
	a := NewNamer("/project", "")
	b := NewNamer("/project", "")

	first := a.ClassName("/project/src/button.ts", 0, "button")
	require.Equal(t, first, a.ClassName("/project/src/button.ts", 0, "button"))
	require.Equal(t, first, b.ClassName("/project/src/button.ts", 0, "button"))

	// sha256("src/button.ts:0:button")
	assert.Equal(t, "css-d004f0a4", first)
}

func TestClassNameCollisions(t *testing.T) {
	n := NewNamer("/project", "css-")

	tests := []struct {
		name string
		a    [3]any
		b    [3]any
	}{
		{
			name: "same variable, different index",
			a:    [3]any{"/project/a.ts", 0, "box"},
			b:    [3]any{"/project/a.ts", 1, "box"},
		},
		{
			name: "different variable, same index",
			a:    [3]any{"/project/a.ts", 0, "box"},
			b:    [3]any{"/project/a.ts", 0, "card"},
		},
		{
			name: "anonymous vs named at same index",
			a:    [3]any{"/project/a.ts", 2, ""},
			b:    [3]any{"/project/a.ts", 2, "card"},
		},
		{
			name: "same declaration, different files",
			a:    [3]any{"/project/a.ts", 0, "box"},
			b:    [3]any{"/project/b.ts", 0, "box"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := n.ClassName(tt.a[0].(string), tt.a[1].(int), tt.a[2].(string))
			right := n.ClassName(tt.b[0].(string), tt.b[1].(int), tt.b[2].(string))
			require.NotEqual(t, left, right)
		})
	}
}

func TestClassNamePrefix(t *testing.T) {
	n := NewNamer("/project", "x-")
	assert.Regexp(t, `^x-[0-9a-f]{8}$`, n.ClassName("/project/a.ts", 0, ""))

	// Empty prefix falls back to the default
	d := NewNamer("/project", "")
	assert.Equal(t, DefaultClassPrefix, d.Prefix)
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{name: "inside root", root: "/project", path: "/project/src/a.ts", want: "src/a.ts"},
		{name: "relative path kept", root: "/project", path: "src/a.ts", want: "src/a.ts"},
		{name: "windows separators", root: "", path: `src\ui\a.ts`, want: "src/ui/a.ts"},
		{name: "no root", root: "", path: "/abs/a.ts", want: "/abs/a.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNamer(tt.root, "")
			require.Equal(t, tt.want, n.RelativePath(tt.path))
		})
	}
}

func TestClassNamePlatformIndependent(t *testing.T) {
	n := NewNamer("", "")
	assert.Equal(t,
		n.ClassName("src/ui/a.ts", 3, "x"),
		n.ClassName(`src\ui\a.ts`, 3, "x"))
}
