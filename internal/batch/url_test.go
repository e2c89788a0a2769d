package batch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bare host", "example.com", "example.com"},
		{"scheme and case", "HTTP://WWW.Example.com/Path/", "example.com/path"},
		{"no scheme with path", "example.com/Path", "example.com/path"},
		{"https", "https://example.com/a/b", "example.com/a/b"},
		{"trailing slashes", "https://example.com/a///", "example.com/a"},
		{"query dropped", "https://example.com/a?utm=x&b=1", "example.com/a"},
		{"fragment dropped", "https://example.com/a#section", "example.com/a"},
		{"port dropped", "https://example.com:8443/a", "example.com/a"},
		{"root path collapses", "https://example.com/", "example.com"},
		{"www only stripped as prefix", "https://www.www-site.com/x", "www-site.com/x"},
		{"uppercase www label", "HTTPS://WWW.EXAMPLE.COM/A", "example.com/a"},
		{"mixed-case www label", "http://WwW.example.com", "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestNormalizeKeyEquivalence(t *testing.T) {
	require.Equal(t, NormalizeKey("HTTP://WWW.Example.com/Path/"), NormalizeKey("example.com/Path"))
	require.Equal(t, "example.com/path", NormalizeKey("example.com/Path"))
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	inputs := []string{
		"HTTP://WWW.Example.com/Path/",
		"example.com",
		"https://example.com:8443/a?q=1#frag",
	}
	for _, in := range inputs {
		key := NormalizeKey(in)
		require.Equal(t, key, NormalizeKey(key), "normalizing a key must be a fixed point: %q", in)
	}
}

func TestNormalizeKeyUnparseableFallback(t *testing.T) {
	// A control character forces url.Parse to fail.
	require.Equal(t, "bad\x7fhost", NormalizeKey("BAD\x7fHOST//"))
}
