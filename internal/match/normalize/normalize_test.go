package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"full url with www", "https://www.example.com/about", "example.com"},
		{"full url without www", "http://example.com", "example.com"},
		{"bare domain", "example.com", "example.com"},
		{"bare domain with www", "www.example.com", "example.com"},
		{"whitespace trimmed", "  example.com  ", "example.com"},
		{"empty", "", ""},
		{"garbage used as-is", "not a url at all", "not a url at all"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Domain(tc.in))
		})
	}
}

func TestPhone(t *testing.T) {
	trimmed, digits := Phone(" +1 (555) 010-1234 ")
	assert.Equal(t, "+1 (555) 010-1234", trimmed)
	assert.Equal(t, "15550101234", digits)

	trimmed, digits = Phone("no digits")
	assert.Equal(t, "no digits", trimmed)
	assert.Equal(t, "", digits)
}

func TestStripProtocol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.facebook.com/acme", "facebook.com/acme"},
		{"http://facebook.com/acme", "facebook.com/acme"},
		{"facebook.com/acme", "facebook.com/acme"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripProtocol(tc.in))
	}
}

func TestInferDomain(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"facebook handle", "https://www.facebook.com/acmeco", "acmeco.com"},
		{"twitter handle", "https://twitter.com/acmeco", "acmeco.com"},
		{"linkedin handle", "https://linkedin.com/acmeco", "acmeco.com"},
		{"handle with query string", "https://facebook.com/acmeco?ref=hp", "acmeco.com"},
		{"generic domain in url", "https://blog.acme.io/posts", "acme.io"},
		{"plain domain", "acme.org", "acme.org"},
		{"nothing plausible", "just words", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferDomain(tc.in))
		})
	}
}
