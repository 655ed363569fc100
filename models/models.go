package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model
type User struct {
	BaseModel
	Username             string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password             string     `json:"-" gorm:"size:255;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex"`
	Phone                string     `json:"phone" gorm:"size:20"`
	Role                 string     `json:"role" gorm:"size:50;not null;default:'student';type:enum('admin','teacher','student')"` // admin, teacher, student
	Status               string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`
	Avatar               string     `json:"avatar" gorm:"size:500"`
	PasswordResetToken   string     `json:"-" gorm:"size:255"`
	PasswordResetExpires *time.Time `json:"-"`

	// Relationships
	Student *Student `json:"student,omitempty" gorm:"foreignKey:UserID"`
	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:UserID"`
}

// Teacher model. SubjectsTaught is a JSON string array; a timetable slot may
// bind this teacher to a subject only if the subject is listed here.
type Teacher struct {
	BaseModel
	UserID         uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName       string `json:"full_name" gorm:"size:200;not null"`
	Qualification  string `json:"qualification" gorm:"size:200"`
	SubjectsTaught JSON   `json:"subjects_taught" gorm:"type:json"`
	Active         bool   `json:"active" gorm:"default:true"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TaughtSubjects decodes the subjects_taught JSON array.
func (t *Teacher) TaughtSubjects() []string {
	var subjects []string
	if t.SubjectsTaught.IsNull() {
		return subjects
	}
	if err := json.Unmarshal(t.SubjectsTaught, &subjects); err != nil {
		return nil
	}
	return subjects
}

// Teaches reports whether the teacher is qualified for the given subject.
func (t *Teacher) Teaches(subject string) bool {
	for _, s := range t.TaughtSubjects() {
		if s == subject {
			return true
		}
	}
	return false
}

// Student model
type Student struct {
	BaseModel
	UserID     uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName   string `json:"full_name" gorm:"size:200;not null"`
	ClassGroup string `json:"class_group" gorm:"size:50;not null;index"`
	RollNo     int    `json:"roll_no" gorm:"not null"`
	ParentName string `json:"parent_name" gorm:"size:200"`
	Phone      string `json:"phone" gorm:"size:20"`
	Active     bool   `json:"active" gorm:"default:true"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TimetableSlot is one cell of the weekly grid. A row with empty SubjectName
// and nil TeacherID is a valid "Free" slot; break periods are configuration,
// never rows. At most one row exists per (class_group, day_of_week, period).
type TimetableSlot struct {
	BaseModel
	ClassGroup   string       `json:"class_group" gorm:"size:50;not null;uniqueIndex:idx_slot_key"`
	DayOfWeek    time.Weekday `json:"day_of_week" gorm:"not null;uniqueIndex:idx_slot_key"` // Monday..Saturday
	PeriodNumber int          `json:"period_number" gorm:"not null;uniqueIndex:idx_slot_key"`
	SubjectName  string       `json:"subject_name" gorm:"size:100"`
	TeacherID    *uint        `json:"teacher_id" gorm:"default:null"`

	// Relationships
	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// IsFree reports whether the slot carries no assignment.
func (s *TimetableSlot) IsFree() bool {
	return s.SubjectName == "" && s.TeacherID == nil
}

// Attendance status values for the base marking flow. Aggregation tolerates
// further values (e.g. "late") without counting them as present or absent.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// AttendanceRecord is one student's status for one session. Writes are
// upserts on the composite key, so editing a submitted session overwrites
// in place; records are never deleted.
type AttendanceRecord struct {
	BaseModel
	StudentID    uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_key"`
	ClassGroup   string    `json:"class_group" gorm:"size:50;not null;uniqueIndex:idx_attendance_key;index"`
	Date         time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_attendance_key;index"`
	PeriodNumber int       `json:"period_number" gorm:"not null;uniqueIndex:idx_attendance_key"`
	SubjectName  string    `json:"subject_name" gorm:"size:100;not null;uniqueIndex:idx_attendance_key"`
	Status       string    `json:"status" gorm:"size:20;not null;type:enum('present','absent','late')"`
	TeacherID    uint      `json:"teacher_id" gorm:"not null"` // recorder

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"`
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`
	Data    JSON       `json:"data,omitempty" gorm:"type:json"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs and registers uploaded to S3
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error       string    `json:"error" gorm:"type:text"`
}
