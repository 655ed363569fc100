package services

import (
	"context"
	"fmt"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/config"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services/notifications"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AttendanceReminder runs a morning sweep that notifies staff about class
// groups whose daily attendance has not been marked yet. Marking happens in
// period 1, so the sweep checks period 1 sessions only.
type AttendanceReminder struct {
	db         *gorm.DB
	timetable  TimetableStore
	attendance AttendanceStore
	policy     SchoolPolicy
	clock      Clock
	cron       *cron.Cron
}

// NewAttendanceReminder wires the reminder over the MySQL stores and the
// configured school policy.
func NewAttendanceReminder() *AttendanceReminder {
	return &AttendanceReminder{
		db:         database.GetDB(),
		timetable:  NewTimetableStore(),
		attendance: NewAttendanceStore(),
		policy:     PolicyFromConfig(),
		clock:      SystemClock{},
	}
}

// Start schedules the sweep with the configured cron spec.
func (r *AttendanceReminder) Start() error {
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(config.AppConfig.ReminderCron, r.SweepUnmarked); err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", config.AppConfig.ReminderCron, err)
	}
	r.cron.Start()
	logrus.WithField("cron", config.AppConfig.ReminderCron).Info("Attendance reminder scheduler started")
	return nil
}

// Stop halts the scheduler. Running sweeps finish first.
func (r *AttendanceReminder) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// SweepUnmarked checks every class group's period 1 session for today and
// notifies the responsible teacher, or the admins when no teacher is bound.
func (r *AttendanceReminder) SweepUnmarked() {
	now := r.clock.Now()
	if now.Weekday() == r.policy.RestDay {
		return
	}

	ctx := context.Background()
	classGroups, err := r.classGroups()
	if err != nil {
		logrus.WithError(err).Error("Reminder sweep could not list class groups")
		return
	}

	notifier := notifications.NewService()
	today := DateOf(now)
	var unmarked int

	for _, classGroup := range classGroups {
		subject := r.policy.DefaultSubjectLabel
		var teacherID *uint
		slot, err := r.timetable.GetSlot(ctx, classGroup, now.Weekday(), 1)
		if err != nil {
			logrus.WithError(err).WithField("class_group", classGroup).Warn("Reminder sweep slot lookup failed")
			continue
		}
		if slot != nil && slot.SubjectName != "" {
			subject = slot.SubjectName
			teacherID = slot.TeacherID
		}

		marked, err := r.attendance.IsMarked(ctx, classGroup, today, 1, subject)
		if err != nil {
			logrus.WithError(err).WithField("class_group", classGroup).Warn("Reminder sweep mark check failed")
			continue
		}
		if marked {
			continue
		}
		unmarked++

		recipients, err := r.recipients(teacherID)
		if err != nil || len(recipients) == 0 {
			logrus.WithError(err).WithField("class_group", classGroup).Warn("Reminder sweep found no recipients")
			continue
		}

		payload := notifications.QueuedWithData(
			"Attendance Pending",
			fmt.Sprintf("Attendance for class %s has not been marked today.", classGroup),
			"warning",
			map[string]interface{}{
				"class_group": classGroup,
				"date":        today.Format("2006-01-02"),
				"period":      1,
				"subject":     subject,
			},
		)
		if err := notifier.EnqueueOrCreate(recipients, payload); err != nil {
			logrus.WithError(err).WithField("class_group", classGroup).Error("Reminder notification failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"date":     today.Format("2006-01-02"),
		"classes":  len(classGroups),
		"unmarked": unmarked,
	}).Info("Attendance reminder sweep completed")
}

// classGroups lists the distinct class groups with active students.
func (r *AttendanceReminder) classGroups() ([]string, error) {
	var groups []string
	err := r.db.Model(&models.Student{}).
		Where("active = ?", true).
		Distinct().
		Order("class_group").
		Pluck("class_group", &groups).Error
	return groups, err
}

// recipients resolves the user ids to notify: the bound teacher's user when
// available, otherwise every admin.
func (r *AttendanceReminder) recipients(teacherID *uint) ([]uint, error) {
	if teacherID != nil {
		var teacher models.Teacher
		if err := r.db.First(&teacher, *teacherID).Error; err == nil && teacher.UserID > 0 {
			return []uint{teacher.UserID}, nil
		}
	}

	var adminIDs []uint
	err := r.db.Model(&models.User{}).
		Where("role = ? AND status = ?", "admin", "active").
		Pluck("id", &adminIDs).Error
	return adminIDs, err
}
