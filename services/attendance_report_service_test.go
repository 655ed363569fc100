package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

func seedStudentDays(t *testing.T, store *fakeAttendanceStore, studentID uint, days map[string]string) {
	t.Helper()
	var records []models.AttendanceRecord
	for day, status := range days {
		records = append(records, models.AttendanceRecord{
			StudentID:    studentID,
			ClassGroup:   "5A",
			Date:         mustDate(day),
			PeriodNumber: 1,
			SubjectName:  "General Attendance",
			Status:       status,
			TeacherID:    7,
		})
	}
	if err := store.UpsertRecords(context.Background(), records); err != nil {
		t.Fatalf("seeding records: %v", err)
	}
}

func TestSummarizeDayShapes(t *testing.T) {
	tests := []struct {
		name   string
		seed   map[string]string
		date   string
		expect string
	}{
		{
			name:   "present",
			seed:   map[string]string{"2026-03-02": models.AttendancePresent},
			date:   "2026-03-02",
			expect: DayPresent,
		},
		{
			name:   "absent",
			seed:   map[string]string{"2026-03-02": models.AttendanceAbsent},
			date:   "2026-03-02",
			expect: DayAbsent,
		},
		{
			name:   "no record",
			seed:   map[string]string{"2026-03-02": models.AttendancePresent},
			date:   "2026-03-03",
			expect: DayNoRecord,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeAttendanceStore()
			seedStudentDays(t, store, 41, tc.seed)
			agg := NewAttendanceAggregator(store)

			student := uint(41)
			summary, err := agg.Summarize(context.Background(), ReportScope{StudentID: &student}, Day(mustDate(tc.date)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if summary.DayStatus != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, summary.DayStatus)
			}
			// The day shape never carries the percentage fields.
			if summary.TotalDays != 0 || summary.OverallPercentage != 0 {
				t.Fatalf("day summary must not aggregate: %+v", summary)
			}
		})
	}
}

func TestSummarizeMonth(t *testing.T) {
	store := newFakeAttendanceStore()
	seedStudentDays(t, store, 41, map[string]string{
		"2026-03-02": models.AttendancePresent,
		"2026-03-03": models.AttendancePresent,
		"2026-03-04": models.AttendanceAbsent,
		"2026-04-01": models.AttendancePresent, // outside the window
	})
	agg := NewAttendanceAggregator(store)

	student := uint(41)
	summary, err := agg.Summarize(context.Background(), ReportScope{StudentID: &student}, MonthOf(2026, time.March))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalDays != 3 || summary.DaysPresent != 2 || summary.DaysAbsent != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	want := float64(2) / float64(3) * 100
	if summary.OverallPercentage != want {
		t.Fatalf("expected full-precision %v, got %v", want, summary.OverallPercentage)
	}
	if len(summary.DetailedHistory) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(summary.DetailedHistory))
	}
	if summary.DetailedHistory[0].Date != "2026-03-02" {
		t.Fatalf("history should be date ordered, got %+v", summary.DetailedHistory)
	}
}

func TestSummarizeEmptyScopeAvoidsDivision(t *testing.T) {
	agg := NewAttendanceAggregator(newFakeAttendanceStore())

	student := uint(41)
	for _, spec := range []PeriodSpec{
		MonthOf(2026, time.March),
		YearOf(2026),
		Range(mustDate("2026-03-01"), mustDate("2026-03-31")),
	} {
		summary, err := agg.Summarize(context.Background(), ReportScope{StudentID: &student}, spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.TotalDays != 0 || summary.OverallPercentage != 0 {
			t.Fatalf("%s: expected zero summary, got %+v", spec.Kind, summary)
		}
	}
}

func TestSummarizeRangeCountsOnlyWorkingDays(t *testing.T) {
	store := newFakeAttendanceStore()
	seedStudentDays(t, store, 41, map[string]string{
		"2026-03-02": models.AttendancePresent,
		"2026-03-09": models.AttendanceAbsent,
	})
	agg := NewAttendanceAggregator(store)

	// A two-week window with only two recorded days: the denominator is the
	// recorded days, not the calendar span.
	student := uint(41)
	summary, err := agg.Summarize(context.Background(), ReportScope{StudentID: &student},
		Range(mustDate("2026-03-01"), mustDate("2026-03-14")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalDays != 2 || summary.DaysPresent != 1 || summary.DaysAbsent != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.OverallPercentage != 50 {
		t.Fatalf("expected 50, got %v", summary.OverallPercentage)
	}
}

func TestSummarizeExtendedStatusCountsDayOnly(t *testing.T) {
	store := newFakeAttendanceStore()
	seedStudentDays(t, store, 41, map[string]string{
		"2026-03-02": models.AttendancePresent,
		"2026-03-03": "late",
	})
	agg := NewAttendanceAggregator(store)

	student := uint(41)
	summary, err := agg.Summarize(context.Background(), ReportScope{StudentID: &student}, MonthOf(2026, time.March))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalDays != 2 || summary.DaysPresent != 1 || summary.DaysAbsent != 0 {
		t.Fatalf("late should widen the denominator only: %+v", summary)
	}
	if summary.DaysPresent+summary.DaysAbsent > summary.TotalDays {
		t.Fatalf("invariant violated: %+v", summary)
	}
}

func TestSummarizeInvalidRange(t *testing.T) {
	agg := NewAttendanceAggregator(newFakeAttendanceStore())

	// Malformed windows carry the sentinel so callers can tell caller
	// mistakes apart from store failures.
	_, err := agg.Summarize(context.Background(), ReportScope{},
		Range(mustDate("2026-03-14"), mustDate("2026-03-01")))
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod for inverted range, got %v", err)
	}

	_, err = agg.Summarize(context.Background(), ReportScope{}, PeriodSpec{Kind: "quarter"})
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod for unknown kind, got %v", err)
	}

	store := newFakeAttendanceStore()
	store.err = errors.New("connection reset")
	_, err = NewAttendanceAggregator(store).Summarize(context.Background(), ReportScope{},
		Range(mustDate("2026-03-01"), mustDate("2026-03-14")))
	if errors.Is(err, ErrInvalidPeriod) || err == nil {
		t.Fatalf("store failure must not carry the period sentinel, got %v", err)
	}
}
