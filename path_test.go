package solid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "a.txt", "a.txt"},
		{"trailing slash dir", "dir/", "dir"},
		{"leading slash", "/etc/hosts", "etc/hosts"},
		{"backslashes", `docs\guide\intro.md`, "docs/guide/intro.md"},
		{"mixed separators", `docs/guide\intro.md`, "docs/guide/intro.md"},
		{"empty", "", "."},
		{"only separators", `/\/`, "."},
		{"collapsed", "a//b///c", "a/b/c"},
		// fs.ValidPath rejects these later
		{"dotdot kept", `..\evil`, "../evil"},
		{"dot kept", "a/./b", "a/./b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.input))
		})
	}
}
