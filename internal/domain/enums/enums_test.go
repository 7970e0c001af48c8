package enums

import "testing"

func TestIssueTypeFromSlug(t *testing.T) {
	got, ok := IssueTypeFromSlug(" Cloud-Security ")
	if !ok || got != IssueTypeCloudSecurity {
		t.Fatalf("unexpected mapping: %q %v", got, ok)
	}
	if _, ok := IssueTypeFromSlug("pentest"); ok {
		t.Fatalf("unknown slug must not map")
	}
}

func TestValidity(t *testing.T) {
	if !IssueTypeVAPT.Valid() || IssueType("vapt").Valid() {
		t.Fatalf("issue type validity is case sensitive on the display value")
	}
	if !GenderPreferNotToSay.Valid() || Gender("unknown").Valid() {
		t.Fatalf("unexpected gender validity")
	}
}
