package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	body := "http://a.com\n\n  http://b.com  \n# a comment\nhttp://c.com\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	urls, err := LoadURLs(path)
	require.NoError(t, err)
	require.Equal(t, []string{"http://a.com", "http://b.com", "http://c.com"}, urls,
		"order preserved, blanks and comments dropped, whitespace trimmed")
}

func TestLoadURLsMissingFile(t *testing.T) {
	_, err := LoadURLs(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestLoadURLsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	urls, err := LoadURLs(path)
	require.NoError(t, err)
	require.Empty(t, urls)
}
