package archive

import "testing"

func TestObjectKey(t *testing.T) {
	cases := []struct {
		host string
		url  string
		want string
	}{
		{"acme.io", "https://acme.io/security", "acme.io/security.html"},
		{"acme.io", "https://acme.io/trust-center", "acme.io/trust-center.html"},
		{"acme.io", "https://acme.io/.well-known/security.txt", "acme.io/well-known-security.txt.html"},
		{"acme.io", "https://acme.io/", "acme.io/index.html"},
		{"acme.io", "https://acme.io", "acme.io/index.html"},
	}
	for _, tc := range cases {
		if got := objectKey(tc.host, tc.url); got != tc.want {
			t.Fatalf("objectKey(%q, %q) = %q, want %q", tc.host, tc.url, got, tc.want)
		}
	}
}
