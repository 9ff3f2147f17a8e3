package middleware

import (
	"net/url"
	"strings"
)

// hostMatches reports whether host fits pattern. "*.example.com" admits any
// subdomain, "localhost:*" any port.
func hostMatches(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

// OriginAllowed reports whether raw (an Origin or Referer value) names one of
// the allowed origins. Entries with a scheme must match it; bare entries match
// the host only.
func OriginAllowed(raw string, allowed []string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, entry := range allowed {
		entry = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(entry), "/"))
		if entry == "" {
			continue
		}
		pattern := entry
		if scheme, rest, ok := strings.Cut(entry, "://"); ok {
			if scheme != strings.ToLower(u.Scheme) {
				continue
			}
			pattern = rest
		}
		if hostMatches(pattern, host) {
			return true
		}
	}
	return false
}
