package batch

import (
	"net/url"
	"strings"
)

// NormalizeKey reduces a URL to its canonical matching form: lower-cased
// host without a leading "www." label, joined with the path minus any
// trailing slash. Scheme, port, query string, and fragment do not
// participate in identity. Two URLs are the same identity iff their keys are
// equal.
//
// NormalizeKey never fails: unparseable input degrades to the raw string
// with trailing slashes stripped and lower-cased.
func NormalizeKey(raw string) string {
	if raw == "" {
		return raw
	}
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return strings.ToLower(strings.TrimRight(raw, "/"))
	}
	// Lower-case before stripping the label, so "WWW.Example.com" and
	// "www.example.com" reduce to the same key.
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.ToLower(strings.TrimRight(u.Path, "/"))
	return host + path
}
