package services

import (
	"context"
	"testing"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"

	"github.com/xuri/excelize/v2"
)

func registerCell(t *testing.T, f *excelize.File, col, row int) string {
	t.Helper()
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.Fatalf("CoordinatesToCellName(%d, %d): %v", col, row, err)
	}
	v, err := f.GetCellValue("Register", name)
	if err != nil {
		t.Fatalf("GetCellValue(%s): %v", name, err)
	}
	return v
}

func TestMonthlyRegisterMarksAndTotals(t *testing.T) {
	roster := newFakeRosterStore()
	roster.addStudent("6A", 1, "Ananya Rao", 1)
	roster.addStudent("6A", 2, "Farhan Ali", 2)

	attendance := newFakeAttendanceStore()
	attendance.UpsertRecords(context.Background(), []models.AttendanceRecord{
		{StudentID: 1, ClassGroup: "6A", Date: mustDate("2025-06-02"), PeriodNumber: 1, SubjectName: "Mathematics", Status: models.AttendancePresent},
		{StudentID: 1, ClassGroup: "6A", Date: mustDate("2025-06-03"), PeriodNumber: 1, SubjectName: "Mathematics", Status: models.AttendanceAbsent},
		{StudentID: 1, ClassGroup: "6A", Date: mustDate("2025-06-04"), PeriodNumber: 1, SubjectName: "Mathematics", Status: models.AttendancePresent},
	})

	exporter := newRegisterExporter(roster, attendance)
	f, err := exporter.MonthlyRegister(context.Background(), "6A", 2025, time.June)
	if err != nil {
		t.Fatalf("MonthlyRegister: %v", err)
	}

	if got := registerCell(t, f, 1, 1); got != "Attendance Register - 6A - June 2025" {
		t.Errorf("title = %q", got)
	}

	// day columns start after Roll No and Student
	const dayBase = 2
	if got := registerCell(t, f, dayBase+2, 3); got != "P" {
		t.Errorf("day 2 mark = %q, want P", got)
	}
	if got := registerCell(t, f, dayBase+3, 3); got != "A" {
		t.Errorf("day 3 mark = %q, want A", got)
	}
	if got := registerCell(t, f, dayBase+1, 3); got != "" {
		t.Errorf("unmarked day 1 = %q, want empty", got)
	}

	// totals follow the 30 day columns of June
	presentCol := dayBase + 30 + 1
	if got := registerCell(t, f, presentCol, 3); got != "2" {
		t.Errorf("present total = %q, want 2", got)
	}
	if got := registerCell(t, f, presentCol+1, 3); got != "1" {
		t.Errorf("absent total = %q, want 1", got)
	}

	// student with no records keeps an empty percentage cell
	if got := registerCell(t, f, presentCol+2, 4); got != "" {
		t.Errorf("unmarked student percentage = %q, want empty", got)
	}
	if got := registerCell(t, f, 2, 4); got != "Farhan Ali" {
		t.Errorf("student name = %q", got)
	}
}

func TestMonthlyRegisterMarksMixedDay(t *testing.T) {
	roster := newFakeRosterStore()
	roster.addStudent("6A", 1, "Ananya Rao", 1)

	// conflicting statuses across the day's periods collapse to the ? mark
	attendance := newFakeAttendanceStore()
	attendance.UpsertRecords(context.Background(), []models.AttendanceRecord{
		{StudentID: 1, ClassGroup: "6A", Date: mustDate("2025-06-05"), PeriodNumber: 1, SubjectName: "Mathematics", Status: models.AttendancePresent},
		{StudentID: 1, ClassGroup: "6A", Date: mustDate("2025-06-05"), PeriodNumber: 2, SubjectName: "English", Status: models.AttendanceAbsent},
	})

	exporter := newRegisterExporter(roster, attendance)
	f, err := exporter.MonthlyRegister(context.Background(), "6A", 2025, time.June)
	if err != nil {
		t.Fatalf("MonthlyRegister: %v", err)
	}

	if got := registerCell(t, f, 2+5, 3); got != "?" {
		t.Errorf("collapsed day mark = %q, want ?", got)
	}
}
