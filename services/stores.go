package services

import (
	"context"
	"errors"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The engine talks to persistence through these interfaces. Production wiring
// uses the GORM-backed implementations below; tests inject fakes.

// TimetableStore reads and upserts weekly grid rows.
type TimetableStore interface {
	// GetSlot returns the stored slot or nil when no row exists for the key.
	GetSlot(ctx context.Context, classGroup string, day time.Weekday, period int) (*models.TimetableSlot, error)
	// PutSlot upserts the row identified by (class_group, day_of_week, period_number).
	PutSlot(ctx context.Context, slot *models.TimetableSlot) error
	// SlotsForClass returns every stored row for the class group.
	SlotsForClass(ctx context.Context, classGroup string) ([]models.TimetableSlot, error)
}

// TeacherDirectory resolves teacher rows for assignment validation.
type TeacherDirectory interface {
	GetTeacher(ctx context.Context, id uint) (*models.Teacher, error)
}

// RosterStore lists the students of a class group.
type RosterStore interface {
	Students(ctx context.Context, classGroup string) ([]models.Student, error)
}

// AttendanceStore reads and writes attendance records. UpsertRecords must be
// atomic: either the whole session batch lands or none of it.
type AttendanceStore interface {
	IsMarked(ctx context.Context, classGroup string, date time.Time, period int, subject string) (bool, error)
	SessionRecords(ctx context.Context, classGroup string, date time.Time, period int, subject string) ([]models.AttendanceRecord, error)
	UpsertRecords(ctx context.Context, records []models.AttendanceRecord) error
	// RecordsInRange returns records matching the scope between from and to
	// inclusive, ordered by date.
	RecordsInRange(ctx context.Context, scope ReportScope, from, to time.Time) ([]models.AttendanceRecord, error)
}

// ReportScope selects whose records an aggregation covers: a single student,
// a recording staff member, or a whole class group. Exactly one of the
// narrowing fields is normally set; ClassGroup may accompany StudentID.
type ReportScope struct {
	StudentID  *uint
	TeacherID  *uint
	ClassGroup string
}

// --- GORM implementations ---

type gormTimetableStore struct {
	db *gorm.DB
}

// NewTimetableStore returns the MySQL-backed timetable store.
func NewTimetableStore() TimetableStore {
	return &gormTimetableStore{db: database.GetDB()}
}

func (s *gormTimetableStore) GetSlot(ctx context.Context, classGroup string, day time.Weekday, period int) (*models.TimetableSlot, error) {
	var slot models.TimetableSlot
	err := s.db.WithContext(ctx).
		Where("class_group = ? AND day_of_week = ? AND period_number = ?", classGroup, day, period).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *gormTimetableStore) PutSlot(ctx context.Context, slot *models.TimetableSlot) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "class_group"}, {Name: "day_of_week"}, {Name: "period_number"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"subject_name", "teacher_id", "updated_at"}),
	}).Create(slot).Error
}

func (s *gormTimetableStore) SlotsForClass(ctx context.Context, classGroup string) ([]models.TimetableSlot, error) {
	var slots []models.TimetableSlot
	err := s.db.WithContext(ctx).
		Preload("Teacher").
		Where("class_group = ?", classGroup).
		Order("day_of_week, period_number").
		Find(&slots).Error
	return slots, err
}

type gormTeacherDirectory struct {
	db *gorm.DB
}

// NewTeacherDirectory returns the MySQL-backed teacher directory.
func NewTeacherDirectory() TeacherDirectory {
	return &gormTeacherDirectory{db: database.GetDB()}
}

func (d *gormTeacherDirectory) GetTeacher(ctx context.Context, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := d.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

type gormRosterStore struct {
	db *gorm.DB
}

// NewRosterStore returns the MySQL-backed class roster store.
func NewRosterStore() RosterStore {
	return &gormRosterStore{db: database.GetDB()}
}

func (s *gormRosterStore) Students(ctx context.Context, classGroup string) ([]models.Student, error) {
	var students []models.Student
	err := s.db.WithContext(ctx).
		Where("class_group = ? AND active = ?", classGroup, true).
		Order("roll_no").
		Find(&students).Error
	return students, err
}

type gormAttendanceStore struct {
	db *gorm.DB
}

// NewAttendanceStore returns the MySQL-backed attendance store.
func NewAttendanceStore() AttendanceStore {
	return &gormAttendanceStore{db: database.GetDB()}
}

func (s *gormAttendanceStore) IsMarked(ctx context.Context, classGroup string, date time.Time, period int, subject string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("class_group = ? AND date = ? AND period_number = ? AND subject_name = ?",
			classGroup, DateOf(date).Format("2006-01-02"), period, subject).
		Count(&count).Error
	return count > 0, err
}

func (s *gormAttendanceStore) SessionRecords(ctx context.Context, classGroup string, date time.Time, period int, subject string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("class_group = ? AND date = ? AND period_number = ? AND subject_name = ?",
			classGroup, DateOf(date).Format("2006-01-02"), period, subject).
		Find(&records).Error
	return records, err
}

func (s *gormAttendanceStore) UpsertRecords(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_id"}, {Name: "class_group"}, {Name: "date"},
				{Name: "period_number"}, {Name: "subject_name"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"status", "teacher_id", "updated_at"}),
		}).Create(&records).Error
	})
}

func (s *gormAttendanceStore) RecordsInRange(ctx context.Context, scope ReportScope, from, to time.Time) ([]models.AttendanceRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("date BETWEEN ? AND ?", DateOf(from).Format("2006-01-02"), DateOf(to).Format("2006-01-02"))
	if scope.StudentID != nil {
		q = q.Where("student_id = ?", *scope.StudentID)
	}
	if scope.TeacherID != nil {
		q = q.Where("teacher_id = ?", *scope.TeacherID)
	}
	if scope.ClassGroup != "" {
		q = q.Where("class_group = ?", scope.ClassGroup)
	}
	var records []models.AttendanceRecord
	err := q.Order("date").Find(&records).Error
	return records, err
}
