package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/config"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-5 * time.Second, "0s"},
		{45 * time.Second, "45s"},
		{90 * time.Minute, "1h 30m"},
		{26*time.Hour + 3*time.Minute, "1d 2h 3m"},
	}
	for _, tc := range cases {
		if got := humanizeDuration(tc.in); got != tc.want {
			t.Errorf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCombineStatusKeepsWorst(t *testing.T) {
	cases := []struct {
		current, candidate, want string
	}{
		{statusOK, statusOK, statusOK},
		{statusOK, statusDegraded, statusDegraded},
		{statusDegraded, statusOK, statusDegraded},
		{statusDegraded, statusCritical, statusCritical},
		{statusCritical, statusDegraded, statusCritical},
		{"bogus", statusDegraded, statusDegraded},
	}
	for _, tc := range cases {
		if got := combineStatus(tc.current, tc.candidate); got != tc.want {
			t.Errorf("combineStatus(%q, %q) = %q, want %q", tc.current, tc.candidate, got, tc.want)
		}
	}
}

func TestHTTPStatusForOverall(t *testing.T) {
	s := NewHealthService("", "")
	if got := s.HTTPStatusForOverall(statusCritical); got != 503 {
		t.Errorf("critical = %d, want 503", got)
	}
	for _, status := range []string{statusOK, statusDegraded} {
		if got := s.HTTPStatusForOverall(status); got != 200 {
			t.Errorf("%s = %d, want 200", status, got)
		}
	}
}

func TestPolicySnapshot(t *testing.T) {
	saved := config.AppConfig
	defer func() { config.AppConfig = saved }()

	config.AppConfig = &config.Config{
		PeriodsPerDay:       8,
		BreakPeriods:        map[int]bool{5: true, 3: true},
		RestDay:             time.Sunday,
		DefaultSubjectLabel: "General Attendance",
		ReminderCron:        "30 9 * * *",
	}

	snap := policySnapshot()
	if snap.PeriodsPerDay != 8 || snap.RestDay != "Sunday" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !reflect.DeepEqual(snap.BreakPeriods, []int{3, 5}) {
		t.Errorf("break periods = %v, want sorted [3 5]", snap.BreakPeriods)
	}
	if snap.DefaultSubject != "General Attendance" || snap.ReminderCron != "30 9 * * *" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	config.AppConfig = nil
	if got := policySnapshot(); !reflect.DeepEqual(got, PolicySnapshot{}) {
		t.Errorf("nil config should yield an empty snapshot, got %+v", got)
	}
}

func TestNewHealthServiceDefaults(t *testing.T) {
	s := NewHealthService("  ", "")
	if s.serviceName != defaultServiceName || s.version != defaultVersion {
		t.Fatalf("blank arguments should fall back to defaults: %q %q", s.serviceName, s.version)
	}
}
