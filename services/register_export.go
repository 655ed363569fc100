package services

import (
	"context"
	"fmt"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/storage"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// RegisterExporter builds the monthly attendance register workbook: one row
// per student, one column per calendar day, P/A marks from the stored
// records collapsed per day.
type RegisterExporter struct {
	roster     RosterStore
	attendance AttendanceStore
}

// NewRegisterExporter wires the exporter over the MySQL stores.
func NewRegisterExporter() *RegisterExporter {
	return &RegisterExporter{
		roster:     NewRosterStore(),
		attendance: NewAttendanceStore(),
	}
}

func newRegisterExporter(roster RosterStore, attendance AttendanceStore) *RegisterExporter {
	return &RegisterExporter{roster: roster, attendance: attendance}
}

// MonthlyRegister renders the register workbook for one class and month.
func (e *RegisterExporter) MonthlyRegister(ctx context.Context, classGroup string, year int, month time.Month) (*excelize.File, error) {
	students, err := e.roster.Students(ctx, classGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for %s: %w", classGroup, err)
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, -1)
	records, err := e.attendance.RecordsInRange(ctx, ReportScope{ClassGroup: classGroup}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load records for %s: %w", classGroup, err)
	}

	// (studentID, day) -> collapsed records of that day
	byStudentDay := make(map[uint]map[int][]models.AttendanceRecord)
	for _, rec := range records {
		day := DateOf(rec.Date).Day()
		if byStudentDay[rec.StudentID] == nil {
			byStudentDay[rec.StudentID] = make(map[int][]models.AttendanceRecord)
		}
		byStudentDay[rec.StudentID][day] = append(byStudentDay[rec.StudentID][day], rec)
	}

	f := excelize.NewFile()
	sheet := "Register"
	f.SetSheetName(f.GetSheetName(0), sheet)

	title := fmt.Sprintf("Attendance Register - %s - %s %d", classGroup, month.String(), year)
	f.SetCellValue(sheet, "A1", title)

	daysInMonth := to.Day()
	headers := []string{"Roll No", "Student"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		f.SetCellValue(sheet, cell, h)
	}
	for day := 1; day <= daysInMonth; day++ {
		cell, _ := excelize.CoordinatesToCellName(len(headers)+day, 2)
		f.SetCellValue(sheet, cell, day)
	}
	for i, h := range []string{"Present", "Absent", "%"} {
		cell, _ := excelize.CoordinatesToCellName(len(headers)+daysInMonth+i+1, 2)
		f.SetCellValue(sheet, cell, h)
	}

	for i, student := range students {
		row := i + 3
		cellA, _ := excelize.CoordinatesToCellName(1, row)
		cellB, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, cellA, student.RollNo)
		f.SetCellValue(sheet, cellB, student.FullName)

		var present, marked int
		for day := 1; day <= daysInMonth; day++ {
			dayRecords := byStudentDay[student.ID][day]
			if len(dayRecords) == 0 {
				continue
			}
			marked++
			mark := registerMark(dayStatus(dayRecords))
			if mark == "P" {
				present++
			}
			cell, _ := excelize.CoordinatesToCellName(len(headers)+day, row)
			f.SetCellValue(sheet, cell, mark)
		}

		cellP, _ := excelize.CoordinatesToCellName(len(headers)+daysInMonth+1, row)
		cellAbs, _ := excelize.CoordinatesToCellName(len(headers)+daysInMonth+2, row)
		cellPct, _ := excelize.CoordinatesToCellName(len(headers)+daysInMonth+3, row)
		f.SetCellValue(sheet, cellP, present)
		f.SetCellValue(sheet, cellAbs, marked-present)
		if marked > 0 {
			f.SetCellValue(sheet, cellPct, float64(present)/float64(marked)*100)
		}
	}

	f.SetColWidth(sheet, "B", "B", 28)

	return f, nil
}

// registerMark maps a collapsed day status to its register letter.
func registerMark(status string) string {
	switch status {
	case models.AttendancePresent:
		return "P"
	case models.AttendanceAbsent:
		return "A"
	case "late":
		return "L"
	default:
		return "?"
	}
}

// ExportToS3 renders the register and archives it in the documents bucket.
// Returns the stored object key.
func (e *RegisterExporter) ExportToS3(ctx context.Context, classGroup string, year int, month time.Month) (string, error) {
	f, err := e.MonthlyRegister(ctx, classGroup, year, month)
	if err != nil {
		return "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to render register workbook: %w", err)
	}

	store, err := storage.NewStorageService()
	if err != nil {
		return "", err
	}

	baseName := fmt.Sprintf("register_%s_%d_%02d", classGroup, year, int(month))
	key, err := store.UploadBytes(buf.Bytes(), "registers", baseName, "xlsx")
	if err != nil {
		return "", err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	archive := models.LogArchive{
		FileName:    baseName + ".xlsx",
		S3Key:       key,
		StartDate:   from,
		EndDate:     from.AddDate(0, 1, -1),
		RecordCount: 0,
		FileSize:    int64(buf.Len()),
		Status:      "completed",
	}
	if err := database.DB.Create(&archive).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record register archive metadata")
	}

	return key, nil
}
