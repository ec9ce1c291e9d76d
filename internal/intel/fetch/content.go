package fetch

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	titleRe = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)

	// Fallback for markup goquery cannot parse. Comments first, then tags.
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// Boilerplate blocks removed before text extraction.
const strippedSelectors = "script,style,nav,footer,header,noscript"

// CleanText converts raw page markup into collapsed plain text. Script,
// style, nav, footer, and header blocks and comments are dropped entirely.
// Plain-text input (security.txt) passes through with whitespace collapsed.
func CleanText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseWhitespace(entityReplacer.Replace(tagRe.ReplaceAllString(commentRe.ReplaceAllString(html, " "), " ")))
	}
	doc.Find(strippedSelectors).Remove()
	return collapseWhitespace(doc.Text())
}

// ExtractTitle returns the first title tag's text, tolerating broken markup.
func ExtractTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(entityReplacer.Replace(m[1]))
}

// ExtractLinks collects anchor hrefs from the page. Root-relative links are
// resolved against the page's own scheme and host; only absolute http(s)
// results are kept, deduplicated in document order.
func ExtractLinks(html, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, baseErr := url.Parse(pageURL)

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)

		var abs string
		switch {
		case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
			abs = href
		case strings.HasPrefix(href, "/") && baseErr == nil && base.Host != "":
			abs = base.Scheme + "://" + base.Host + href
		default:
			return
		}

		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})
	return links
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
