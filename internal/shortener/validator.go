package shortener

import (
	"net/url"
	"strings"
)

// MaxURLLength is the longest raw URL accepted before normalization.
// Enforced by the request layer; exported so every caller applies the same
// limit.
const MaxURLLength = 2048

// blockedHostPrefixes rejects local and private targets. Matching is plain
// string prefix on the lowercased hostname, not CIDR containment, so a
// public name that happens to start with one of these is rejected too.
// That over-breadth is accepted.
var blockedHostPrefixes = []string{
	"localhost", "127.0.0.1", "0.0.0.0", "::1",
	"10.", "172.16.", "172.17.", "172.18.", "172.19.",
	"172.20.", "172.21.", "172.22.", "172.23.", "172.24.",
	"172.25.", "172.26.", "172.27.", "172.28.", "172.29.",
	"172.30.", "172.31.", "192.168.",
}

// Normalize prepends https:// when the input carries no HTTP scheme.
// The string is otherwise left untouched.
func Normalize(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}

	return raw
}

// IsValidTarget reports whether the URL is an acceptable redirect target:
// parseable, http or https, hostname of at least 3 characters, and not a
// local or private host. Fails closed on parse errors.
func IsValidTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	if len(hostname) < 3 {
		return false
	}

	for _, blocked := range blockedHostPrefixes {
		if strings.HasPrefix(hostname, blocked) {
			return false
		}
	}

	return true
}
