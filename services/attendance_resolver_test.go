package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

type resolverFixture struct {
	resolver   *AttendanceSessionResolver
	timetable  *fakeTimetableStore
	attendance *fakeAttendanceStore
	roster     *fakeRosterStore
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	timetable := newFakeTimetableStore()
	attendance := newFakeAttendanceStore()
	roster := newFakeRosterStore()
	clock := fixedClock{now: mustDate("2026-03-02")} // a Monday
	return &resolverFixture{
		resolver:   NewAttendanceSessionResolver(timetable, attendance, roster, testPolicy(), clock),
		timetable:  timetable,
		attendance: attendance,
		roster:     roster,
	}
}

func TestResolveRestDay(t *testing.T) {
	fx := newResolverFixture(t)
	sunday := mustDate("2026-03-01")

	for _, period := range []int{1, 2, 8} {
		state, err := fx.resolver.Resolve(context.Background(), "5A", sunday, period)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Status != SessionIneligible || state.Reason != ReasonRestDay {
			t.Fatalf("period %d: expected rest-day ineligible, got %+v", period, state)
		}
	}
}

func TestResolvePeriodRestriction(t *testing.T) {
	fx := newResolverFixture(t)
	monday := mustDate("2026-03-02")

	// A bound slot and no prior record must not rescue later periods.
	fx.timetable.slots[slotKey{"5A", time.Monday, 2}] = &models.TimetableSlot{
		ClassGroup: "5A", DayOfWeek: time.Monday, PeriodNumber: 2, SubjectName: "Science",
	}

	for period := 2; period <= 8; period++ {
		state, err := fx.resolver.Resolve(context.Background(), "5A", monday, period)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Status != SessionIneligible || state.Reason != ReasonAttendanceRestrictedToPeriodOne {
			t.Fatalf("period %d: expected period-one restriction, got %+v", period, state)
		}
	}
}

func TestResolveUnknownPeriodNotConfigured(t *testing.T) {
	fx := newResolverFixture(t)
	monday := mustDate("2026-03-02")

	for _, period := range []int{0, 9} {
		_, err := fx.resolver.Resolve(context.Background(), "5A", monday, period)
		if !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("period %d: expected ErrNotConfigured, got %v", period, err)
		}
	}

	// The rest-day outcome still wins over the period table.
	state, err := fx.resolver.Resolve(context.Background(), "5A", mustDate("2026-03-01"), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Status != SessionIneligible || state.Reason != ReasonRestDay {
		t.Fatalf("expected rest-day ineligible, got %+v", state)
	}
}

func TestResolveEligibleWithBoundSubject(t *testing.T) {
	fx := newResolverFixture(t)
	monday := mustDate("2026-03-02")
	fx.timetable.slots[slotKey{"5A", time.Monday, 1}] = &models.TimetableSlot{
		ClassGroup: "5A", DayOfWeek: time.Monday, PeriodNumber: 1, SubjectName: "Math", TeacherID: uintPtr(7),
	}

	state, err := fx.resolver.Resolve(context.Background(), "5A", monday, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Status != SessionEligible || state.SubjectName != "Math" {
		t.Fatalf("expected eligible Math session, got %+v", state)
	}
}

func TestResolveUnboundSlotFallsBack(t *testing.T) {
	fx := newResolverFixture(t)
	tuesday := mustDate("2026-03-03")

	state, err := fx.resolver.Resolve(context.Background(), "5A", tuesday, 1)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if state.Status != SessionEligible || state.SubjectName != "General Attendance" {
		t.Fatalf("expected General Attendance fallback, got %+v", state)
	}
}

func TestResolveStoreFailureSurfaces(t *testing.T) {
	fx := newResolverFixture(t)
	fx.timetable.err = errors.New("connection reset")

	_, err := fx.resolver.Resolve(context.Background(), "5A", mustDate("2026-03-02"), 1)
	if err == nil {
		t.Fatalf("expected store failure to surface")
	}
}

func TestMarkThenResolveAgain(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()
	monday := mustDate("2026-03-02")

	fx.timetable.slots[slotKey{"5A", time.Monday, 1}] = &models.TimetableSlot{
		ClassGroup: "5A", DayOfWeek: time.Monday, PeriodNumber: 1, SubjectName: "Math", TeacherID: uintPtr(7),
	}
	fx.roster.addStudent("5A", 41, "Ravi Teja", 1)
	fx.roster.addStudent("5A", 42, "Lakshmi Devi", 2)
	fx.roster.addStudent("5A", 43, "Arjun Reddy", 3)

	state, err := fx.resolver.Resolve(ctx, "5A", monday, 1)
	if err != nil || state.Status != SessionEligible {
		t.Fatalf("expected eligible, got %+v (%v)", state, err)
	}

	editor, err := fx.resolver.LoadRoster(ctx, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Status != SessionReady || len(state.Roster) != 3 {
		t.Fatalf("expected ready with 3 students, got %+v", state)
	}
	for _, entry := range state.Roster {
		if entry.Status != models.AttendancePresent {
			t.Fatalf("roster should seed present, got %+v", entry)
		}
	}

	if err := editor.SetStatus(42, models.AttendanceAbsent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := editor.Submit(ctx, fx.attendance, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 3 || result.Present != 2 || result.Absent != 1 {
		t.Fatalf("unexpected submit result: %+v", result)
	}

	// The same key now resolves as already marked.
	again, err := fx.resolver.Resolve(ctx, "5A", monday, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Status != SessionAlreadyMarked {
		t.Fatalf("expected already marked, got %+v", again)
	}
}

func TestLoadRosterRequiresEligible(t *testing.T) {
	fx := newResolverFixture(t)

	state := &SessionState{Status: SessionIneligible, Reason: ReasonRestDay}
	if _, err := fx.resolver.LoadRoster(context.Background(), state); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestReopenForEditSeedsFromRecords(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()
	monday := mustDate("2026-03-02")

	fx.timetable.slots[slotKey{"5A", time.Monday, 1}] = &models.TimetableSlot{
		ClassGroup: "5A", DayOfWeek: time.Monday, PeriodNumber: 1, SubjectName: "Math", TeacherID: uintPtr(7),
	}
	fx.roster.addStudent("5A", 41, "Ravi Teja", 1)
	fx.roster.addStudent("5A", 42, "Lakshmi Devi", 2)
	fx.roster.addStudent("5A", 44, "Meena Kumari", 4) // joined after original submission

	seed := []models.AttendanceRecord{
		{StudentID: 41, ClassGroup: "5A", Date: monday, PeriodNumber: 1, SubjectName: "Math", Status: models.AttendancePresent, TeacherID: 7},
		{StudentID: 42, ClassGroup: "5A", Date: monday, PeriodNumber: 1, SubjectName: "Math", Status: models.AttendanceAbsent, TeacherID: 7},
	}
	if err := fx.attendance.UpsertRecords(ctx, seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, editor, err := fx.resolver.ReopenForEdit(ctx, "5A", monday, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Status != SessionReady {
		t.Fatalf("edit should bypass eligibility and land in ready, got %+v", state)
	}

	want := map[uint]string{
		41: models.AttendancePresent,
		42: models.AttendanceAbsent,
		44: models.AttendancePresent,
	}
	for id, status := range want {
		got, ok := editor.Status(id)
		if !ok || got != status {
			t.Fatalf("student %d: expected %q, got %q (present=%v)", id, status, got, ok)
		}
	}
}

func TestReopenForEditIgnoresCreationGuards(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()
	sunday := mustDate("2026-03-01")

	fx.roster.addStudent("5A", 41, "Ravi Teja", 1)
	seed := []models.AttendanceRecord{
		{StudentID: 41, ClassGroup: "5A", Date: sunday, PeriodNumber: 3, SubjectName: "General Attendance", Status: models.AttendanceAbsent, TeacherID: 7},
	}
	if err := fx.attendance.UpsertRecords(ctx, seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rest day and non-first period only gate creation; editing an existing
	// record set is always allowed.
	state, editor, err := fx.resolver.ReopenForEdit(ctx, "5A", sunday, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Status != SessionReady {
		t.Fatalf("expected ready, got %+v", state)
	}
	if got, _ := editor.Status(41); got != models.AttendanceAbsent {
		t.Fatalf("expected seeded absent, got %q", got)
	}
}

func TestReopenForEditRequiresExistingRecords(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()

	fx.roster.addStudent("5A", 41, "Ravi Teja", 1)

	// The guard bypass applies only once records exist; a never-marked
	// rest-day or later-period session must not be creatable via the edit
	// path.
	for _, tc := range []struct {
		date   string
		period int
	}{
		{"2026-03-01", 3}, // Sunday, never marked
		{"2026-03-02", 2}, // weekday later period, never marked
		{"2026-03-02", 1}, // ordinary key, never marked
	} {
		_, _, err := fx.resolver.ReopenForEdit(ctx, "5A", mustDate(tc.date), tc.period)
		if !errors.Is(err, ErrNotMarked) {
			t.Fatalf("%s period %d: expected ErrNotMarked, got %v", tc.date, tc.period, err)
		}
	}
	if len(fx.attendance.records) != 0 {
		t.Fatalf("failed reopen must not create records, got %d", len(fx.attendance.records))
	}
}

func TestResubmitOverwritesInPlace(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()
	monday := mustDate("2026-03-02")

	fx.roster.addStudent("5A", 41, "Ravi Teja", 1)
	fx.roster.addStudent("5A", 42, "Lakshmi Devi", 2)

	state, err := fx.resolver.Resolve(ctx, "5A", monday, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	editor, err := fx.resolver.LoadRoster(ctx, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := editor.SetStatus(42, models.AttendanceAbsent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := editor.Submit(ctx, fx.attendance, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Edit flow flips student 42 back to present; the key set must not grow.
	_, editor2, err := fx.resolver.ReopenForEdit(ctx, "5A", monday, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := editor2.SetStatus(42, models.AttendancePresent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := editor2.Submit(ctx, fx.attendance, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fx.attendance.records) != 2 {
		t.Fatalf("resubmission must overwrite, not duplicate: %d records", len(fx.attendance.records))
	}
	recs, err := fx.attendance.SessionRecords(ctx, "5A", monday, 1, "General Attendance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range recs {
		if rec.Status != models.AttendancePresent {
			t.Fatalf("student %d should be present after edit, got %q", rec.StudentID, rec.Status)
		}
	}
}

func TestSetStatusValidation(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()

	fx.roster.addStudent("5A", 41, "Ravi Teja", 1)
	state, err := fx.resolver.Resolve(ctx, "5A", mustDate("2026-03-02"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	editor, err := fx.resolver.LoadRoster(ctx, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := editor.SetStatus(99, models.AttendanceAbsent); !errors.Is(err, ErrUnknownStudent) {
		t.Fatalf("expected ErrUnknownStudent, got %v", err)
	}
	if err := editor.SetStatus(41, "late"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestIsToday(t *testing.T) {
	fx := newResolverFixture(t)

	if !fx.resolver.IsToday(mustDate("2026-03-02")) {
		t.Fatalf("fixed clock date should be today")
	}
	if fx.resolver.IsToday(mustDate("2026-03-03")) {
		t.Fatalf("tomorrow should not be today")
	}
}
