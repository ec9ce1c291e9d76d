// Package classify detects compliance and security signals in scraped page
// content using fixed rule tables. All matching is case-insensitive and runs
// over the visible text and the raw HTML combined, since badges and vendor
// embeds often live only in markup attributes.
package classify

import (
	"regexp"
	"strings"

	"risclens_backend/internal/intel/domain"
)

// Signals is the outcome of content classification for one domain.
type Signals struct {
	MentionsSOC2             bool
	MentionsComplianceTool   bool
	HasResponsibleDisclosure bool
	HasSecurityContact       bool
	DetectedTools            []string
	DetectedCertifications   []string
}

var soc2Patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)soc\s*2`),
	regexp.MustCompile(`(?i)soc\s*ii`),
	regexp.MustCompile(`(?i)soc2`),
	regexp.MustCompile(`(?i)type\s*(1|2|i|ii)\s*(report|certification|audit)`),
	regexp.MustCompile(`(?i)aicpa`),
}

type toolRule struct {
	name     string
	patterns []*regexp.Regexp
}

// Vendor patterns include hosted-portal hostnames because trust pages are
// frequently just an iframe or link to the vendor's portal.
var complianceTools = []toolRule{
	{"Vanta", compile(`vanta`, `app\.vanta\.com`, `trust\.vanta`)},
	{"Drata", compile(`drata`, `app\.drata\.com`)},
	{"Secureframe", compile(`secureframe`)},
	{"Laika", compile(`heylaika`, `laika\.so`)},
	{"Thoropass", compile(`thoropass`)},
	{"Sprinto", compile(`sprinto`)},
	{"Tugboat Logic", compile(`tugboat\s*logic`)},
	{"Anecdotes", compile(`anecdotes`)},
	{"SafeBase", compile(`safebase`)},
	{"Conveyor", compile(`conveyor\.com`, `withconveyor`)},
}

var disclosurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)responsible\s*disclosure`),
	regexp.MustCompile(`(?i)bug\s*bounty`),
	regexp.MustCompile(`(?i)vulnerability\s*disclosure`),
	regexp.MustCompile(`(?i)security\s*researcher`),
	regexp.MustCompile(`(?i)hackerone`),
	regexp.MustCompile(`(?i)bugcrowd`),
	regexp.MustCompile(`(?i)report\s*a\s*vulnerability`),
}

var contactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)security@`),
	regexp.MustCompile(`(?i)mailto:security`),
	regexp.MustCompile(`(?i)security\s*team`),
	regexp.MustCompile(`(?i)security\s*contact`),
}

type certRule struct {
	name    string
	pattern *regexp.Regexp
}

// Ordered most-specific first: the generic "SOC 2" entry is suppressed when a
// typed SOC 2 report already matched.
var certPatterns = []certRule{
	{"SOC 2 Type I", regexp.MustCompile(`(?i)soc\s*2?\s*type\s*(1|i)\b`)},
	{"SOC 2 Type II", regexp.MustCompile(`(?i)soc\s*2?\s*type\s*(2|ii)\b`)},
	{"SOC 2", regexp.MustCompile(`(?i)soc\s*2`)},
	{"ISO 27001", regexp.MustCompile(`(?i)iso\s*27001`)},
	{"ISO 27017", regexp.MustCompile(`(?i)iso\s*27017`)},
	{"ISO 27018", regexp.MustCompile(`(?i)iso\s*27018`)},
	{"HIPAA", regexp.MustCompile(`(?i)hipaa`)},
	{"GDPR", regexp.MustCompile(`(?i)gdpr`)},
	{"PCI DSS", regexp.MustCompile(`(?i)pci[\s-]?dss`)},
	{"FedRAMP", regexp.MustCompile(`(?i)fedramp`)},
	{"CSA STAR", regexp.MustCompile(`(?i)csa\s*star`)},
	{"SOX", regexp.MustCompile(`(?i)\bsox\b`)},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// Detect classifies the combined text and HTML of a probe run.
func Detect(text, html string) Signals {
	combined := strings.ToLower(text) + " " + strings.ToLower(html)

	var sig Signals
	sig.MentionsSOC2 = anyMatch(soc2Patterns, combined)

	for _, tool := range complianceTools {
		if anyMatch(tool.patterns, combined) {
			sig.DetectedTools = append(sig.DetectedTools, tool.name)
		}
	}
	sig.MentionsComplianceTool = len(sig.DetectedTools) > 0

	sig.HasResponsibleDisclosure = anyMatch(disclosurePatterns, combined)
	sig.HasSecurityContact = anyMatch(contactPatterns, combined)

	for _, cert := range certPatterns {
		if !cert.pattern.MatchString(combined) {
			continue
		}
		if cert.name == "SOC 2" && (contains(sig.DetectedCertifications, "SOC 2 Type I") || contains(sig.DetectedCertifications, "SOC 2 Type II")) {
			continue
		}
		if !contains(sig.DetectedCertifications, cert.name) {
			sig.DetectedCertifications = append(sig.DetectedCertifications, cert.name)
		}
	}

	return sig
}

// ApplyTo copies the content-derived signals onto a marker set. Path-derived
// markers (security and trust pages) are owned by the caller and untouched.
func (s Signals) ApplyTo(markers domain.Markers) {
	markers[domain.MarkerSOC2] = s.MentionsSOC2
	markers[domain.MarkerComplianceTool] = s.MentionsComplianceTool
	markers[domain.MarkerResponsibleDisclosure] = s.HasResponsibleDisclosure
	markers[domain.MarkerSecurityContact] = s.HasSecurityContact
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
