package domain

import "testing"

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"HTTPS://WWW.Example.com/path", "example.com"},
		{"example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"http://example.com", "example.com"},
		{"example.com/security", "example.com"},
		{"  Example.COM  ", "example.com"},
		{"https://sub.example.co.uk/a/b?c=d", "sub.example.co.uk"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeDomain(tc.in); got != tc.want {
			t.Fatalf("NormalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDomainIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://WWW.Example.com/path",
		"www.example.com",
		"not a url at all",
		"example.com:8080/x",
	}

	for _, in := range inputs {
		once := NormalizeDomain(in)
		twice := NormalizeDomain(once)
		if once != twice {
			t.Fatalf("NormalizeDomain not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
