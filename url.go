package rezept

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// IsValidURL reports whether raw is an absolute http or https URL with a
// non-empty host. It never panics.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

// ExtractDomain returns the lowercase host of raw without port.
// Punycode labels are decoded to Unicode.
func ExtractDomain(raw string) (string, error) {
	if !IsValidURL(raw) {
		return "", Errorf(EINVALID, "invalid url: %q", raw)
	}
	u, _ := url.Parse(strings.TrimSpace(raw))
	host := strings.ToLower(u.Hostname())
	if decoded, err := idna.ToUnicode(host); err == nil {
		host = decoded
	}
	return host, nil
}

// ValidURLs returns the valid URLs from urls in their original order.
func ValidURLs(urls []string) []string {
	var out []string
	for _, u := range urls {
		if IsValidURL(u) {
			out = append(out, u)
		}
	}
	return out
}
