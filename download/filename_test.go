package download

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFilename(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		expected string
	}{
		{"empty input", "", "unknown.bin"},
		{"root path", "http://h/", "h.bin"},
		{"plain file", "http://h/a/b.txt", "b.txt"},
		{"percent encoded", "http://h/a%20b", "a b.bin"},
		{"unparsable", "http://[::1", "invalid_url.bin"},
		{"trailing slash", "http://h/firmware/", "firmware.bin"},
		{"unsafe characters", "http://h/a%2Fb%3Ac%2Ad", "a_b_c_d.bin"},
		{"control characters", "http://h/a%00b", "a_b.bin"},
		{"host only", "http://example.com", "example.com.bin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveFilename(tc.url)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDeriveFilenameIsTotal(t *testing.T) {
	inputs := []string{"", "http://h/", "http://h/a/b.txt", "http://h/a%20b", "http://[::1", "%%%", "ftp://x/..//", "http://h/%zz"}
	for _, input := range inputs {
		got := DeriveFilename(input)
		assert.NotEmpty(t, got, "input %q", input)
		assert.Contains(t, got, ".", "input %q must produce an extension", input)
		for _, r := range got {
			assert.False(t, unicode.IsControl(r), "input %q produced control character", input)
		}
		assert.False(t, strings.ContainsAny(got, "/\\:*"), "input %q produced unsafe name %q", input, got)
	}
}
