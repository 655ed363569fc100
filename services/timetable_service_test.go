package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestGrid(t *testing.T) (*TimetableGrid, *fakeTimetableStore) {
	t.Helper()
	store := newFakeTimetableStore()
	dir := newFakeTeacherDirectory(
		testTeacher(7, "Anita Rao", "Math", "Science"),
		testTeacher(9, "Suresh Kumar", "English"),
	)
	return NewTimetableGrid(store, dir, testPolicy(), nil), store
}

func uintPtr(v uint) *uint { return &v }

func TestSetSlotThenGetSlot(t *testing.T) {
	grid, _ := newTestGrid(t)
	ctx := context.Background()

	set, err := grid.SetSlot(ctx, "5A", time.Monday, 1, "Math", uintPtr(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := grid.GetSlot(ctx, "5A", time.Monday, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SubjectName != set.SubjectName || got.TeacherID == nil || *got.TeacherID != 7 {
		t.Fatalf("expected Math/teacher 7, got %q/%v", got.SubjectName, got.TeacherID)
	}
}

func TestSetSlotValidation(t *testing.T) {
	tests := []struct {
		name    string
		day     time.Weekday
		period  int
		subject string
		teacher *uint
		wantErr error
	}{
		{
			name:    "subject outside taught set",
			day:     time.Monday,
			period:  2,
			subject: "History",
			teacher: uintPtr(7),
			wantErr: ErrInvalidAssignment,
		},
		{
			name:    "period outside configured table",
			day:     time.Monday,
			period:  9,
			subject: "Math",
			teacher: uintPtr(7),
			wantErr: ErrNotConfigured,
		},
		{
			name:    "break period not assignable",
			day:     time.Monday,
			period:  5,
			subject: "Math",
			teacher: uintPtr(7),
			wantErr: ErrInvalidAssignment,
		},
		{
			name:    "rest day not assignable",
			day:     time.Sunday,
			period:  1,
			subject: "Math",
			teacher: uintPtr(7),
			wantErr: ErrInvalidAssignment,
		},
		{
			name:    "subject only is valid",
			day:     time.Tuesday,
			period:  3,
			subject: "Math",
			teacher: nil,
		},
	}

	grid, _ := newTestGrid(t)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.SetSlot(context.Background(), "5A", tc.day, tc.period, tc.subject, tc.teacher)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestClearSlotLeavesFreeSentinel(t *testing.T) {
	grid, _ := newTestGrid(t)
	ctx := context.Background()

	if _, err := grid.SetSlot(ctx, "5A", time.Monday, 2, "Math", uintPtr(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := grid.SetSlot(ctx, "5A", time.Monday, 2, "", nil); err != nil {
		t.Fatalf("clearing slot: %v", err)
	}

	got, err := grid.GetSlot(ctx, "5A", time.Monday, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsFree() {
		t.Fatalf("expected free slot, got %q/%v", got.SubjectName, got.TeacherID)
	}
}

func TestGetSlotMissingRowIsFree(t *testing.T) {
	grid, _ := newTestGrid(t)

	got, err := grid.GetSlot(context.Background(), "5A", time.Wednesday, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsFree() {
		t.Fatalf("expected free sentinel, got %+v", got)
	}
}

func TestGetSlotUnknownPeriod(t *testing.T) {
	grid, _ := newTestGrid(t)

	if _, err := grid.GetSlot(context.Background(), "5A", time.Monday, 12); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGetSlotBreakSentinel(t *testing.T) {
	grid, _ := newTestGrid(t)

	got, err := grid.GetSlot(context.Background(), "5A", time.Monday, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SubjectName != BreakLabel {
		t.Fatalf("expected break sentinel, got %+v", got)
	}
}

func TestColorForIdempotent(t *testing.T) {
	palette := NewSubjectPalette(nil)

	first := palette.ColorFor("Math")
	for i := 0; i < 10; i++ {
		if c := palette.ColorFor("Math"); c != first {
			t.Fatalf("color changed on call %d: %q != %q", i, c, first)
		}
	}
}

func TestColorForDistinctUntilWraparound(t *testing.T) {
	colors := []string{"#111111", "#222222", "#333333"}
	palette := NewSubjectPalette(colors)

	if c := palette.ColorFor("Math"); c != colors[0] {
		t.Fatalf("expected %q, got %q", colors[0], c)
	}
	if c := palette.ColorFor("Science"); c != colors[1] {
		t.Fatalf("expected %q, got %q", colors[1], c)
	}
	if c := palette.ColorFor("English"); c != colors[2] {
		t.Fatalf("expected %q, got %q", colors[2], c)
	}
	// Palette exhausted: the cycle restarts.
	if c := palette.ColorFor("Hindi"); c != colors[0] {
		t.Fatalf("expected wraparound to %q, got %q", colors[0], c)
	}
	// Earlier bindings are unaffected by the wraparound.
	if c := palette.ColorFor("Science"); c != colors[1] {
		t.Fatalf("expected stable %q, got %q", colors[1], c)
	}
}

func TestColorForNeutral(t *testing.T) {
	palette := NewSubjectPalette(nil)

	if c := palette.ColorFor(""); c != NeutralColor {
		t.Fatalf("free slot should be neutral, got %q", c)
	}
	if c := palette.ColorFor(BreakLabel); c != NeutralColor {
		t.Fatalf("break should be neutral, got %q", c)
	}
}

func TestWeekViewShapes(t *testing.T) {
	grid, _ := newTestGrid(t)
	ctx := context.Background()

	if _, err := grid.SetSlot(ctx, "5A", time.Monday, 1, "Math", uintPtr(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cells, err := grid.WeekView(ctx, "5A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	policy := testPolicy()
	wantCells := len(policy.SchoolDays()) * policy.PeriodsPerDay
	if len(cells) != wantCells {
		t.Fatalf("expected %d cells, got %d", wantCells, len(cells))
	}

	var mathSeen, breakSeen bool
	for _, cell := range cells {
		if cell.DayOfWeek == time.Monday && cell.PeriodNumber == 1 {
			mathSeen = true
			if cell.SubjectName != "Math" || cell.Color == NeutralColor {
				t.Fatalf("assigned cell rendered wrong: %+v", cell)
			}
		}
		if cell.PeriodNumber == 5 {
			breakSeen = true
			if !cell.IsBreak || cell.Color != NeutralColor {
				t.Fatalf("break cell rendered wrong: %+v", cell)
			}
		}
	}
	if !mathSeen || !breakSeen {
		t.Fatalf("expected both assigned and break cells in view")
	}
}
