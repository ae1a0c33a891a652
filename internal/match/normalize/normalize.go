// Package normalize cleans individual input signals before query generation.
// Every function fails soft: bad input degrades to a best-effort string, it
// never produces an error.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	nonDigits  = regexp.MustCompile(`[^\d]`)
	protoWWW   = regexp.MustCompile(`^https?://(www\.)?`)
	socialPath = regexp.MustCompile(`(?:facebook|twitter|instagram|linkedin)\.com/([^/?]+)`)
	genericTLD = regexp.MustCompile(`([a-zA-Z0-9-]+)\.(com|org|net|io|co)`)
)

// Domain extracts a bare host from a URL-like string. Parseable URLs yield
// their host; anything else is used as-is. A leading "www." is stripped in
// both cases.
func Domain(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	return strings.TrimPrefix(s, "www.")
}

// Phone returns the trimmed raw string and its digits-only variant. Both are
// queried, since the index may store phones in either form.
func Phone(raw string) (trimmed, digits string) {
	trimmed = strings.TrimSpace(raw)
	digits = nonDigits.ReplaceAllString(trimmed, "")
	return trimmed, digits
}

// StripProtocol removes a leading http(s) scheme and optional "www." from a
// social URL, producing the protocol-agnostic form used for tolerant matching.
func StripProtocol(raw string) string {
	return protoWWW.ReplaceAllString(strings.TrimSpace(raw), "")
}

// InferDomain guesses a company domain from a social media URL. A known
// platform URL maps its handle to "<handle>.com"; otherwise the first generic
// "<label>.<tld>" occurrence wins. Returns "" when nothing plausible is
// found - absence, not an error. The guess only ever feeds low and medium
// weight queries.
func InferDomain(socialURL string) string {
	s := strings.TrimSpace(socialURL)
	if s == "" {
		return ""
	}
	if m := socialPath.FindStringSubmatch(s); m != nil {
		return m[1] + ".com"
	}
	if m := genericTLD.FindStringSubmatch(s); m != nil {
		return m[1] + "." + m[2]
	}
	return ""
}
