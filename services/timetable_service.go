package services

import (
	"context"
	"fmt"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

// TimetableGrid owns the weekly class/period assignment. Reads are safe to
// call concurrently; writes to different slot keys are independent, and a
// write and read of the same key are linearized by the database, not here.
type TimetableGrid struct {
	store    TimetableStore
	teachers TeacherDirectory
	policy   SchoolPolicy
	palette  *SubjectPalette
}

// NewTimetableGrid wires a grid over explicit collaborators.
func NewTimetableGrid(store TimetableStore, teachers TeacherDirectory, policy SchoolPolicy, palette *SubjectPalette) *TimetableGrid {
	if palette == nil {
		palette = NewSubjectPalette(nil)
	}
	return &TimetableGrid{store: store, teachers: teachers, policy: policy, palette: palette}
}

// NewDefaultTimetableGrid wires the grid over the MySQL stores and the
// configured school policy.
func NewDefaultTimetableGrid() *TimetableGrid {
	return NewTimetableGrid(NewTimetableStore(), NewTeacherDirectory(), PolicyFromConfig(), nil)
}

// Policy exposes the grid's schedule rules.
func (g *TimetableGrid) Policy() SchoolPolicy { return g.policy }

// GetSlot returns the assignment for the key, or the Free sentinel when no
// row exists. Break periods return a fixed, non-assignable sentinel. The only
// failure besides storage is a period outside the configured table.
func (g *TimetableGrid) GetSlot(ctx context.Context, classGroup string, day time.Weekday, period int) (*models.TimetableSlot, error) {
	if !g.policy.PeriodExists(period) {
		return nil, fmt.Errorf("%w: period %d", ErrNotConfigured, period)
	}
	if g.policy.IsBreak(period) {
		return g.breakSentinel(classGroup, day, period), nil
	}

	slot, err := g.store.GetSlot(ctx, classGroup, day, period)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return g.freeSentinel(classGroup, day, period), nil
	}
	return slot, nil
}

// SetSlot validates and persists an assignment. Passing both subject and
// teacher empty clears the slot, which stays a valid row (Free is a terminal
// state, not an absence). When both are given the subject must be in the
// teacher's taught set.
func (g *TimetableGrid) SetSlot(ctx context.Context, classGroup string, day time.Weekday, period int, subjectName string, teacherID *uint) (*models.TimetableSlot, error) {
	if !g.policy.PeriodExists(period) {
		return nil, fmt.Errorf("%w: period %d", ErrNotConfigured, period)
	}
	if g.policy.IsBreak(period) {
		return nil, fmt.Errorf("%w: period %d is a break", ErrInvalidAssignment, period)
	}
	if day < time.Monday || day > time.Saturday || day == g.policy.RestDay {
		return nil, fmt.Errorf("%w: %s is not a school day", ErrInvalidAssignment, day)
	}

	if subjectName != "" && teacherID != nil {
		teacher, err := g.teachers.GetTeacher(ctx, *teacherID)
		if err != nil {
			return nil, err
		}
		if !teacher.Teaches(subjectName) {
			return nil, fmt.Errorf("%w: %s does not teach %s", ErrInvalidAssignment, teacher.FullName, subjectName)
		}
	}

	slot := &models.TimetableSlot{
		ClassGroup:   classGroup,
		DayOfWeek:    day,
		PeriodNumber: period,
		SubjectName:  subjectName,
		TeacherID:    teacherID,
	}
	if err := g.store.PutSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// ColorFor returns the stable display color for a subject; Free and break
// labels always render the neutral color.
func (g *TimetableGrid) ColorFor(subjectName string) string {
	return g.palette.ColorFor(subjectName)
}

// WeekCell is one rendered cell of the weekly grid.
type WeekCell struct {
	DayOfWeek    time.Weekday `json:"day_of_week"`
	PeriodNumber int          `json:"period_number"`
	SubjectName  string       `json:"subject_name,omitempty"`
	TeacherID    *uint        `json:"teacher_id,omitempty"`
	TeacherName  string       `json:"teacher_name,omitempty"`
	IsBreak      bool         `json:"is_break,omitempty"`
	IsFree       bool         `json:"is_free,omitempty"`
	Color        string       `json:"color"`
}

// WeekView renders the full weekly grid for a class: every school day crossed
// with every configured period, stored assignments filled in, breaks and free
// cells as sentinels with the neutral color.
func (g *TimetableGrid) WeekView(ctx context.Context, classGroup string) ([]WeekCell, error) {
	stored, err := g.store.SlotsForClass(ctx, classGroup)
	if err != nil {
		return nil, err
	}

	type key struct {
		day    time.Weekday
		period int
	}
	byKey := make(map[key]*models.TimetableSlot, len(stored))
	for i := range stored {
		s := &stored[i]
		byKey[key{s.DayOfWeek, s.PeriodNumber}] = s
	}

	var cells []WeekCell
	for _, day := range g.policy.SchoolDays() {
		for period := 1; period <= g.policy.PeriodsPerDay; period++ {
			cell := WeekCell{DayOfWeek: day, PeriodNumber: period, Color: NeutralColor}
			if g.policy.IsBreak(period) {
				cell.IsBreak = true
				cells = append(cells, cell)
				continue
			}
			slot, ok := byKey[key{day, period}]
			if !ok || slot.IsFree() {
				cell.IsFree = true
				cells = append(cells, cell)
				continue
			}
			cell.SubjectName = slot.SubjectName
			cell.TeacherID = slot.TeacherID
			if slot.Teacher != nil {
				cell.TeacherName = slot.Teacher.FullName
			}
			cell.Color = g.palette.ColorFor(slot.SubjectName)
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// freeSentinel is the valid empty assignment for a key with no stored row.
func (g *TimetableGrid) freeSentinel(classGroup string, day time.Weekday, period int) *models.TimetableSlot {
	return &models.TimetableSlot{
		ClassGroup:   classGroup,
		DayOfWeek:    day,
		PeriodNumber: period,
	}
}

// breakSentinel marks a configured break position; it is never persisted.
func (g *TimetableGrid) breakSentinel(classGroup string, day time.Weekday, period int) *models.TimetableSlot {
	return &models.TimetableSlot{
		ClassGroup:   classGroup,
		DayOfWeek:    day,
		PeriodNumber: period,
		SubjectName:  BreakLabel,
	}
}
