package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func testPolicy() SchoolPolicy {
	return SchoolPolicy{
		PeriodsPerDay:       8,
		BreakPeriods:        map[int]bool{5: true},
		RestDay:             time.Sunday,
		DefaultSubjectLabel: "General Attendance",
	}
}

type slotKey struct {
	class  string
	day    time.Weekday
	period int
}

type fakeTimetableStore struct {
	slots map[slotKey]*models.TimetableSlot
	err   error
}

func newFakeTimetableStore() *fakeTimetableStore {
	return &fakeTimetableStore{slots: make(map[slotKey]*models.TimetableSlot)}
}

func (s *fakeTimetableStore) GetSlot(_ context.Context, classGroup string, day time.Weekday, period int) (*models.TimetableSlot, error) {
	if s.err != nil {
		return nil, s.err
	}
	slot, ok := s.slots[slotKey{classGroup, day, period}]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

func (s *fakeTimetableStore) PutSlot(_ context.Context, slot *models.TimetableSlot) error {
	if s.err != nil {
		return s.err
	}
	cp := *slot
	s.slots[slotKey{slot.ClassGroup, slot.DayOfWeek, slot.PeriodNumber}] = &cp
	return nil
}

func (s *fakeTimetableStore) SlotsForClass(_ context.Context, classGroup string) ([]models.TimetableSlot, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.TimetableSlot
	for k, slot := range s.slots {
		if k.class == classGroup {
			out = append(out, *slot)
		}
	}
	return out, nil
}

type fakeTeacherDirectory struct {
	teachers map[uint]*models.Teacher
}

func newFakeTeacherDirectory(teachers ...*models.Teacher) *fakeTeacherDirectory {
	d := &fakeTeacherDirectory{teachers: make(map[uint]*models.Teacher)}
	for _, t := range teachers {
		d.teachers[t.ID] = t
	}
	return d
}

func (d *fakeTeacherDirectory) GetTeacher(_ context.Context, id uint) (*models.Teacher, error) {
	t, ok := d.teachers[id]
	if !ok {
		return nil, errors.New("teacher not found")
	}
	return t, nil
}

func testTeacher(id uint, name string, subjects ...string) *models.Teacher {
	raw, _ := json.Marshal(subjects)
	t := &models.Teacher{FullName: name, SubjectsTaught: raw}
	t.ID = id
	return t
}

type fakeRosterStore struct {
	students map[string][]models.Student
	err      error
}

func newFakeRosterStore() *fakeRosterStore {
	return &fakeRosterStore{students: make(map[string][]models.Student)}
}

func (s *fakeRosterStore) addStudent(classGroup string, id uint, name string, rollNo int) {
	st := models.Student{FullName: name, ClassGroup: classGroup, RollNo: rollNo, Active: true}
	st.ID = id
	s.students[classGroup] = append(s.students[classGroup], st)
}

func (s *fakeRosterStore) Students(_ context.Context, classGroup string) ([]models.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.students[classGroup], nil
}

type recordKey struct {
	student uint
	class   string
	date    string
	period  int
	subject string
}

type fakeAttendanceStore struct {
	records map[recordKey]models.AttendanceRecord
	err     error
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: make(map[recordKey]models.AttendanceRecord)}
}

func (s *fakeAttendanceStore) keyOf(rec models.AttendanceRecord) recordKey {
	return recordKey{
		student: rec.StudentID,
		class:   rec.ClassGroup,
		date:    DateOf(rec.Date).Format("2006-01-02"),
		period:  rec.PeriodNumber,
		subject: rec.SubjectName,
	}
}

func (s *fakeAttendanceStore) IsMarked(_ context.Context, classGroup string, date time.Time, period int, subject string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	day := DateOf(date).Format("2006-01-02")
	for k := range s.records {
		if k.class == classGroup && k.date == day && k.period == period && k.subject == subject {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAttendanceStore) SessionRecords(_ context.Context, classGroup string, date time.Time, period int, subject string) ([]models.AttendanceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	day := DateOf(date).Format("2006-01-02")
	var out []models.AttendanceRecord
	for k, rec := range s.records {
		if k.class == classGroup && k.date == day && k.period == period && k.subject == subject {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeAttendanceStore) UpsertRecords(_ context.Context, records []models.AttendanceRecord) error {
	if s.err != nil {
		return s.err
	}
	for _, rec := range records {
		s.records[s.keyOf(rec)] = rec
	}
	return nil
}

func (s *fakeAttendanceStore) RecordsInRange(_ context.Context, scope ReportScope, from, to time.Time) ([]models.AttendanceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	lo := DateOf(from).Format("2006-01-02")
	hi := DateOf(to).Format("2006-01-02")
	var out []models.AttendanceRecord
	for k, rec := range s.records {
		if k.date < lo || k.date > hi {
			continue
		}
		if scope.StudentID != nil && rec.StudentID != *scope.StudentID {
			continue
		}
		if scope.TeacherID != nil && rec.TeacherID != *scope.TeacherID {
			continue
		}
		if scope.ClassGroup != "" && rec.ClassGroup != scope.ClassGroup {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// mustDate builds a local date or panics; test fixture helper.
func mustDate(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		panic(fmt.Sprintf("bad test date %q: %v", value, err))
	}
	return t
}
