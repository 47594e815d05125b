package users

import "testing"

func TestUniversityDisplayName(t *testing.T) {
	uni := University{Name: "Inha University in Tashkent", ShortName: "IUT"}
	if got := uni.DisplayName(); got != "IUT" {
		t.Fatalf("expected short name, got %q", got)
	}

	uni.ShortName = ""
	if got := uni.DisplayName(); got != "Inha University in Tashkent" {
		t.Fatalf("expected full name fallback, got %q", got)
	}
}

func TestAffiliationName(t *testing.T) {
	profile := UserProfile{FullName: "Aziza Karimova"}
	if got := profile.AffiliationName(); got != "" {
		t.Fatalf("expected empty affiliation for unaffiliated profile, got %q", got)
	}

	profile.University = &University{Name: "TUIT"}
	if got := profile.AffiliationName(); got != "TUIT" {
		t.Fatalf("expected university name, got %q", got)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"STUDENT", "ORGANIZER", "ADMIN"} {
		if !IsValidRole(role) {
			t.Errorf("expected %s to be valid", role)
		}
	}
	for _, role := range []string{"", "student", "ROOT"} {
		if IsValidRole(role) {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}
