package utils

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("vps-secret-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword("vps-secret-1", hash); err != nil {
		t.Fatalf("expected hash to verify: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"teacher", true},
		{"student", true},
		{"owner", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsValidRole(tc.role); got != tc.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestIsValidAttendanceStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"present", true},
		{"absent", true},
		{"late", true},
		{"Present", false},
		{"excused", false},
	}
	for _, tc := range tests {
		if got := IsValidAttendanceStatus(tc.status); got != tc.want {
			t.Errorf("IsValidAttendanceStatus(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  5A\x00 "); got != "5A" {
		t.Errorf("SanitizeString = %q, want %q", got, "5A")
	}
}
