// Package urlnorm implements the URL Normalizer (C2): a pure function used only for
// equality lookups during correspondence resolution. Original URLs are always
// preserved in user-visible output; only the normalized form is used as a map key.
package urlnorm

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Normalize canonicalizes a URL for comparison purposes:
//  1. parse; on failure return the input unchanged
//  2. lowercase host
//  3. strip a leading "www."
//  4. remove a trailing "/" from the path unless the path is exactly "/"
//  5. drop query string and fragment
//  6. keep scheme as-is
func Normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	host = strings.TrimPrefix(host, "www.")

	if port := u.Port(); port != "" {
		host = host + ":" + port
	}
	u.Host = host

	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil

	return u.String()
}

// PathKey reduces a URL to its normalized path plus query string, dropping scheme,
// host, and fragment entirely. A site migration changes host by definition
// (old.example.com -> new.example.com), so correspondence matching keys on this
// host-independent form rather than Normalize's host-qualified one.
func PathKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	path := u.Path
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	if u.RawQuery == "" {
		return path
	}
	return path + "?" + u.RawQuery
}
