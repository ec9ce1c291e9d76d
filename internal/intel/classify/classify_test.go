package classify

import (
	"reflect"
	"testing"

	"risclens_backend/internal/intel/domain"
)

func TestDetectSOC2Variants(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"We are SOC 2 compliant", true},
		{"soc2 report available on request", true},
		{"Audited under SOC II standards", true},
		{"Type 2 report issued by our auditor", true},
		{"AICPA attestation", true},
		{"We take socks seriously", false},
		{"General privacy policy", false},
	}
	for _, tc := range cases {
		if got := Detect(tc.text, "").MentionsSOC2; got != tc.want {
			t.Fatalf("MentionsSOC2(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestDetectComplianceTools(t *testing.T) {
	sig := Detect("Our compliance is automated with Vanta and monitored via Drata.", "")
	want := []string{"Vanta", "Drata"}
	if !reflect.DeepEqual(sig.DetectedTools, want) {
		t.Fatalf("tools = %v, want %v", sig.DetectedTools, want)
	}
	if !sig.MentionsComplianceTool {
		t.Fatal("MentionsComplianceTool should be true")
	}
}

func TestDetectToolInHTMLOnly(t *testing.T) {
	// Vendor embeds often appear only in markup, not visible text.
	sig := Detect("Welcome to our trust center.", `<iframe src="https://app.vanta.com/trust/acme"></iframe>`)
	if !sig.MentionsComplianceTool {
		t.Fatal("tool in HTML attribute should be detected")
	}
	if len(sig.DetectedTools) != 1 || sig.DetectedTools[0] != "Vanta" {
		t.Fatalf("tools = %v", sig.DetectedTools)
	}
}

func TestDetectDisclosureAndContact(t *testing.T) {
	sig := Detect("Report a vulnerability via our HackerOne program or email security@acme.io", "")
	if !sig.HasResponsibleDisclosure {
		t.Fatal("disclosure should be detected")
	}
	if !sig.HasSecurityContact {
		t.Fatal("security contact should be detected")
	}

	empty := Detect("We sell widgets.", "")
	if empty.HasResponsibleDisclosure || empty.HasSecurityContact {
		t.Fatalf("unexpected signals: %+v", empty)
	}
}

func TestDetectCertificationsSuppressGenericSOC2(t *testing.T) {
	sig := Detect("We hold a SOC 2 Type II report and comply with GDPR and ISO 27001.", "")
	want := []string{"SOC 2 Type II", "ISO 27001", "GDPR"}
	if !reflect.DeepEqual(sig.DetectedCertifications, want) {
		t.Fatalf("certs = %v, want %v", sig.DetectedCertifications, want)
	}
}

func TestDetectGenericSOC2WhenNoTypedReport(t *testing.T) {
	sig := Detect("SOC 2 compliant since 2022. PCI-DSS in progress.", "")
	want := []string{"SOC 2", "PCI DSS"}
	if !reflect.DeepEqual(sig.DetectedCertifications, want) {
		t.Fatalf("certs = %v, want %v", sig.DetectedCertifications, want)
	}
}

func TestDetectSOXWordBoundary(t *testing.T) {
	// The word-boundary rule matches the team name too; that is the known
	// tradeoff of the naive pattern.
	if got := Detect("Red Sox fans welcome", "").DetectedCertifications; len(got) != 1 || got[0] != "SOX" {
		t.Fatalf("certs = %v", got)
	}
	if got := Detect("soxhlet extraction", "").DetectedCertifications; len(got) != 0 {
		t.Fatalf("certs = %v, want none", got)
	}
}

func TestApplyTo(t *testing.T) {
	markers := domain.Markers{
		domain.MarkerSecurityPage: true,
		domain.MarkerTrustPage:    false,
	}
	sig := Signals{MentionsSOC2: true, HasSecurityContact: true}
	sig.ApplyTo(markers)

	if !markers[domain.MarkerSecurityPage] {
		t.Fatal("path-derived marker must be preserved")
	}
	if !markers[domain.MarkerSOC2] || !markers[domain.MarkerSecurityContact] {
		t.Fatalf("markers = %v", markers)
	}
	if markers[domain.MarkerComplianceTool] || markers[domain.MarkerResponsibleDisclosure] {
		t.Fatalf("markers = %v", markers)
	}
}
