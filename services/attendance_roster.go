package services

import (
	"context"
	"fmt"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

// RosterEditor holds the per-student status list for a Ready session and
// produces the final record batch. Mutations are purely in-memory until
// Submit, which writes the whole set as one upsert keyed by the session, so
// resubmitting after an edit overwrites in place instead of duplicating.
type RosterEditor struct {
	session  *SessionState
	statuses map[uint]string
	order    []uint
}

func newRosterEditor(state *SessionState) *RosterEditor {
	e := &RosterEditor{
		session:  state,
		statuses: make(map[uint]string, len(state.Roster)),
		order:    make([]uint, 0, len(state.Roster)),
	}
	for _, entry := range state.Roster {
		e.statuses[entry.StudentID] = entry.Status
		e.order = append(e.order, entry.StudentID)
	}
	return e
}

// Session returns the session the editor was opened for.
func (e *RosterEditor) Session() *SessionState { return e.session }

// SetStatus updates one student's status in memory. Only the base marking
// statuses are accepted here.
func (e *RosterEditor) SetStatus(studentID uint, status string) error {
	if status != models.AttendancePresent && status != models.AttendanceAbsent {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if _, ok := e.statuses[studentID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownStudent, studentID)
	}
	e.statuses[studentID] = status
	return nil
}

// Status returns the current in-memory status for a student.
func (e *RosterEditor) Status(studentID uint) (string, bool) {
	s, ok := e.statuses[studentID]
	return s, ok
}

// SubmitResult reports what a submission wrote.
type SubmitResult struct {
	ClassGroup   string `json:"class_group"`
	SubjectName  string `json:"subject_name"`
	PeriodNumber int    `json:"period_number"`
	Date         string `json:"date"`
	Total        int    `json:"total"`
	Present      int    `json:"present"`
	Absent       int    `json:"absent"`
}

// Submit persists the full status set as a single atomic upsert batch
// recorded by teacherID. A failed write leaves no partial state behind; the
// caller may simply re-invoke.
func (e *RosterEditor) Submit(ctx context.Context, store AttendanceStore, teacherID uint) (*SubmitResult, error) {
	if e.session.Status != SessionReady {
		return nil, fmt.Errorf("%w: submit requires a ready session", ErrInvalidState)
	}

	records := make([]models.AttendanceRecord, 0, len(e.order))
	result := &SubmitResult{
		ClassGroup:   e.session.ClassGroup,
		SubjectName:  e.session.SubjectName,
		PeriodNumber: e.session.PeriodNumber,
		Date:         e.session.Date.Format("2006-01-02"),
		Total:        len(e.order),
	}
	for _, studentID := range e.order {
		status := e.statuses[studentID]
		records = append(records, models.AttendanceRecord{
			StudentID:    studentID,
			ClassGroup:   e.session.ClassGroup,
			Date:         e.session.Date,
			PeriodNumber: e.session.PeriodNumber,
			SubjectName:  e.session.SubjectName,
			Status:       status,
			TeacherID:    teacherID,
		})
		switch status {
		case models.AttendancePresent:
			result.Present++
		case models.AttendanceAbsent:
			result.Absent++
		}
	}

	if err := store.UpsertRecords(ctx, records); err != nil {
		return nil, err
	}
	return result, nil
}
