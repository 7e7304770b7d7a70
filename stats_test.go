package zerocss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStyleStats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want StyleStats
	}{
		{
			name: "empty",
			text: "",
			want: StyleStats{},
		},
		{
			name: "two blocks",
			text: ".css-1 {\n  color: red;\n  padding: 0;\n}\n\n.css-2 {\n  --gap: 4px;\n}\n",
			want: StyleStats{Rules: 2, Declarations: 3},
		},
		{
			name: "at rule",
			text: "@media (min-width: 600px) {\n  .css-1 {\n    color: red;\n  }\n}\n",
			want: StyleStats{Rules: 1, Declarations: 1, AtRules: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Bytes = len(tt.text)
			assert.Equal(t, tt.want, ComputeStyleStats(tt.text))
		})
	}
}

func TestStyleStatsAdd(t *testing.T) {
	s := StyleStats{Rules: 1, Declarations: 2, Bytes: 10}
	s.Add(StyleStats{Rules: 2, Declarations: 1, AtRules: 1, Bytes: 5})
	assert.Equal(t, StyleStats{Rules: 3, Declarations: 3, AtRules: 1, Bytes: 15}, s)
}
