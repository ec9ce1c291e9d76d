package fetch

import (
	"strings"
	"testing"
)

func TestCleanTextStripsBoilerplate(t *testing.T) {
	html := `<html><head><title>Acme</title><style>body{color:red}</style></head>
<body><nav>Menu</nav><header>Top</header>
<script>var x = "secret";</script>
<!-- hidden comment -->
<p>We are SOC 2   certified &amp; proud.</p>
<footer>Legal</footer></body></html>`

	text := CleanText(html)

	for _, banned := range []string{"Menu", "Top", "secret", "hidden comment", "Legal", "color:red"} {
		if strings.Contains(text, banned) {
			t.Fatalf("clean text should not contain %q, got %q", banned, text)
		}
	}
	if !strings.Contains(text, "We are SOC 2 certified & proud.") {
		t.Fatalf("clean text missing body content: %q", text)
	}
}

func TestCleanTextPlainText(t *testing.T) {
	got := CleanText("Contact: security@example.com\nPolicy:   https://example.com/security\n")
	want := "Contact: security@example.com Policy: https://example.com/security"
	if got != want {
		t.Fatalf("CleanText plain text = %q, want %q", got, want)
	}
}

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		html string
		want string
	}{
		{`<title>Trust Center</title>`, "Trust Center"},
		{`<TITLE lang="en"> Security &amp; Compliance </TITLE>`, "Security & Compliance"},
		{`<p>no title here</p>`, ""},
		{`<title>First</title><title>Second</title>`, "First"},
	}
	for _, tc := range cases {
		if got := ExtractTitle(tc.html); got != tc.want {
			t.Fatalf("ExtractTitle(%q) = %q, want %q", tc.html, got, tc.want)
		}
	}
}

func TestExtractLinks(t *testing.T) {
	html := `<body>
<a href="https://example.com/security">abs</a>
<a href="/trust">rel</a>
<a href="/trust">dup</a>
<a href="mailto:security@example.com">mail</a>
<a href="ftp://example.com/file">ftp</a>
<a href="#anchor">anchor</a>
</body>`

	links := ExtractLinks(html, "https://example.com/pricing")

	want := []string{"https://example.com/security", "https://example.com/trust"}
	if len(links) != len(want) {
		t.Fatalf("got %d links %v, want %v", len(links), links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Fatalf("link %d = %q, want %q", i, links[i], want[i])
		}
	}
}
