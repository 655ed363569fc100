package services

import (
	"context"
	"fmt"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

// SessionStatus is the state of one attendance-taking opportunity.
// Idle -> Resolving -> {Ineligible, AlreadyMarked, Eligible} -> Ready.
// Ineligible, AlreadyMarked and Ready are terminal.
type SessionStatus string

const (
	SessionIneligible    SessionStatus = "ineligible"
	SessionAlreadyMarked SessionStatus = "already_marked"
	SessionEligible      SessionStatus = "eligible"
	SessionReady         SessionStatus = "ready"
)

// IneligibleReason explains why a session cannot be marked. These are normal
// terminal outcomes, not errors.
type IneligibleReason string

const (
	ReasonRestDay                         IneligibleReason = "rest_day"
	ReasonAttendanceRestrictedToPeriodOne IneligibleReason = "attendance_restricted_to_period_one"
)

// RosterEntry is one student with the session status being edited.
type RosterEntry struct {
	StudentID uint   `json:"student_id"`
	FullName  string `json:"full_name"`
	RollNo    int    `json:"roll_no"`
	Status    string `json:"status"`
}

// SessionState is the resolved view of (class, date, period): the subject to
// teach, whether marking is allowed, and once loaded, the roster.
type SessionState struct {
	ClassGroup   string           `json:"class_group"`
	Date         time.Time        `json:"date"`
	DayOfWeek    time.Weekday     `json:"day_of_week"`
	PeriodNumber int              `json:"period_number"`
	SubjectName  string           `json:"subject_name,omitempty"`
	Status       SessionStatus    `json:"status"`
	Reason       IneligibleReason `json:"reason,omitempty"`
	Roster       []RosterEntry    `json:"roster,omitempty"`
}

// AttendanceSessionResolver decides, for a class/date/period, whether
// attendance may be taken, whether it already has been, and what subject the
// session stands for. All business-rule checks run locally before any store
// call, so rule outcomes never mix with storage failures.
type AttendanceSessionResolver struct {
	timetable  TimetableStore
	attendance AttendanceStore
	roster     RosterStore
	policy     SchoolPolicy
	clock      Clock
}

// NewAttendanceSessionResolver wires a resolver over explicit collaborators.
func NewAttendanceSessionResolver(timetable TimetableStore, attendance AttendanceStore, roster RosterStore, policy SchoolPolicy, clock Clock) *AttendanceSessionResolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AttendanceSessionResolver{
		timetable:  timetable,
		attendance: attendance,
		roster:     roster,
		policy:     policy,
		clock:      clock,
	}
}

// NewDefaultAttendanceSessionResolver wires the resolver over the MySQL
// stores and the configured school policy.
func NewDefaultAttendanceSessionResolver() *AttendanceSessionResolver {
	return NewAttendanceSessionResolver(NewTimetableStore(), NewAttendanceStore(), NewRosterStore(), PolicyFromConfig(), nil)
}

// Resolve computes the session state for the creation path. Only the first
// period may represent the whole day, and the weekly rest day is never
// markable; both checks run before any query.
func (r *AttendanceSessionResolver) Resolve(ctx context.Context, classGroup string, date time.Time, period int) (*SessionState, error) {
	state := &SessionState{
		ClassGroup:   classGroup,
		Date:         DateOf(date),
		DayOfWeek:    date.Weekday(),
		PeriodNumber: period,
	}

	if date.Weekday() == r.policy.RestDay {
		state.Status = SessionIneligible
		state.Reason = ReasonRestDay
		return state, nil
	}
	if !r.policy.PeriodExists(period) {
		return nil, fmt.Errorf("%w: period %d", ErrNotConfigured, period)
	}
	if period != 1 {
		// One period-1 record stands for the whole day; later periods would
		// produce duplicate or contradictory daily records.
		state.Status = SessionIneligible
		state.Reason = ReasonAttendanceRestrictedToPeriodOne
		return state, nil
	}

	subject, err := r.resolveSubject(ctx, classGroup, date.Weekday(), period)
	if err != nil {
		return nil, err
	}
	state.SubjectName = subject

	marked, err := r.attendance.IsMarked(ctx, classGroup, date, period, subject)
	if err != nil {
		return nil, err
	}
	if marked {
		state.Status = SessionAlreadyMarked
		return state, nil
	}

	state.Status = SessionEligible
	return state, nil
}

// LoadRoster moves an Eligible session to Ready, seeding every student as
// present (the teacher marks exceptions).
func (r *AttendanceSessionResolver) LoadRoster(ctx context.Context, state *SessionState) (*RosterEditor, error) {
	if state == nil || state.Status != SessionEligible {
		return nil, fmt.Errorf("%w: roster requires an eligible session", ErrInvalidState)
	}

	students, err := r.roster.Students(ctx, state.ClassGroup)
	if err != nil {
		return nil, err
	}

	state.Roster = make([]RosterEntry, 0, len(students))
	for _, s := range students {
		state.Roster = append(state.Roster, RosterEntry{
			StudentID: s.ID,
			FullName:  s.FullName,
			RollNo:    s.RollNo,
			Status:    models.AttendancePresent,
		})
	}
	state.Status = SessionReady
	return newRosterEditor(state), nil
}

// ReopenForEdit is the second entry point into the state machine: once a
// record set exists, editing is always allowed, so the rest-day and period
// guards that gate creation are skipped and the roster is seeded from the
// stored records instead of the default. Students who joined the class after
// the original submission appear seeded as present. A session with no stored
// records fails with ErrNotMarked; the bypass only applies to existing
// records, never to first-time marking.
func (r *AttendanceSessionResolver) ReopenForEdit(ctx context.Context, classGroup string, date time.Time, period int) (*SessionState, *RosterEditor, error) {
	if !r.policy.PeriodExists(period) {
		return nil, nil, fmt.Errorf("%w: period %d", ErrNotConfigured, period)
	}

	subject, err := r.resolveSubject(ctx, classGroup, date.Weekday(), period)
	if err != nil {
		return nil, nil, err
	}

	records, err := r.attendance.SessionRecords(ctx, classGroup, date, period, subject)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %s %s period %d", ErrNotMarked,
			classGroup, DateOf(date).Format("2006-01-02"), period)
	}
	existing := make(map[uint]string, len(records))
	for _, rec := range records {
		existing[rec.StudentID] = rec.Status
	}

	students, err := r.roster.Students(ctx, classGroup)
	if err != nil {
		return nil, nil, err
	}

	state := &SessionState{
		ClassGroup:   classGroup,
		Date:         DateOf(date),
		DayOfWeek:    date.Weekday(),
		PeriodNumber: period,
		SubjectName:  subject,
		Status:       SessionReady,
	}
	state.Roster = make([]RosterEntry, 0, len(students))
	for _, s := range students {
		status, ok := existing[s.ID]
		if !ok {
			status = models.AttendancePresent
		}
		state.Roster = append(state.Roster, RosterEntry{
			StudentID: s.ID,
			FullName:  s.FullName,
			RollNo:    s.RollNo,
			Status:    status,
		})
	}
	return state, newRosterEditor(state), nil
}

// IsToday reports whether the date is the resolver clock's current date.
func (r *AttendanceSessionResolver) IsToday(date time.Time) bool {
	return SameDate(date, r.clock.Now())
}

// resolveSubject looks up the timetable binding for the key, falling back to
// the configured default label so attendance stays takeable for unscheduled
// periods.
func (r *AttendanceSessionResolver) resolveSubject(ctx context.Context, classGroup string, day time.Weekday, period int) (string, error) {
	slot, err := r.timetable.GetSlot(ctx, classGroup, day, period)
	if err != nil {
		return "", err
	}
	if slot == nil || slot.SubjectName == "" {
		return r.policy.DefaultSubjectLabel, nil
	}
	return slot.SubjectName, nil
}
