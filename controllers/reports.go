package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services"

	"github.com/gofiber/fiber/v2"
)

// ReportController exposes attendance aggregation and the register export.
type ReportController struct {
	aggregator *services.AttendanceAggregator
	exporter   *services.RegisterExporter
}

func NewReportController() *ReportController {
	return &ReportController{
		aggregator: services.NewDefaultAttendanceAggregator(),
		exporter:   services.NewRegisterExporter(),
	}
}

// parseScope builds the aggregation scope from query values.
func parseScope(c *fiber.Ctx) (services.ReportScope, error) {
	var scope services.ReportScope
	if raw := c.Query("student_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return scope, fmt.Errorf("invalid student_id")
		}
		v := uint(id)
		scope.StudentID = &v
	}
	if raw := c.Query("teacher_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return scope, fmt.Errorf("invalid teacher_id")
		}
		v := uint(id)
		scope.TeacherID = &v
	}
	scope.ClassGroup = c.Query("class_group")
	if scope.StudentID == nil && scope.TeacherID == nil && scope.ClassGroup == "" {
		return scope, fmt.Errorf("scope required: student_id, teacher_id or class_group")
	}
	return scope, nil
}

// parsePeriodSpec builds the aggregation window from query values.
func parsePeriodSpec(c *fiber.Ctx) (services.PeriodSpec, error) {
	kind := c.Query("period", "day")
	switch kind {
	case "day":
		raw := c.Query("date", time.Now().Format("2006-01-02"))
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return services.PeriodSpec{}, fmt.Errorf("invalid date, expected YYYY-MM-DD")
		}
		return services.Day(date), nil
	case "month":
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			return services.PeriodSpec{}, fmt.Errorf("invalid year")
		}
		month, err := strconv.Atoi(c.Query("month"))
		if err != nil || month < 1 || month > 12 {
			return services.PeriodSpec{}, fmt.Errorf("invalid month")
		}
		return services.MonthOf(year, time.Month(month)), nil
	case "year":
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			return services.PeriodSpec{}, fmt.Errorf("invalid year")
		}
		return services.YearOf(year), nil
	case "range":
		from, err := time.ParseInLocation("2006-01-02", c.Query("from"), time.Local)
		if err != nil {
			return services.PeriodSpec{}, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
		}
		to, err := time.ParseInLocation("2006-01-02", c.Query("to"), time.Local)
		if err != nil {
			return services.PeriodSpec{}, fmt.Errorf("invalid to date, expected YYYY-MM-DD")
		}
		return services.Range(from, to), nil
	default:
		return services.PeriodSpec{}, fmt.Errorf("unknown period %q", kind)
	}
}

// GetAttendanceSummary aggregates attendance for a scope over a window
func (rc *ReportController) GetAttendanceSummary(c *fiber.Ctx) error {
	scope, err := parseScope(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	spec, err := parsePeriodSpec(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	summary, err := rc.aggregator.Summarize(c.Context(), scope, spec)
	if err != nil {
		// A malformed window is the caller's fault; a store failure is not.
		if errors.Is(err, services.ErrInvalidPeriod) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to aggregate attendance",
		})
	}

	return c.JSON(fiber.Map{
		"summary": summary,
	})
}

// registerWindow reads the register year/month query values.
func registerWindow(c *fiber.Ctx) (int, time.Month, error) {
	now := time.Now()
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year")
	}
	month, err := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month")
	}
	return year, time.Month(month), nil
}

// DownloadRegister streams the monthly register workbook
func (rc *ReportController) DownloadRegister(c *fiber.Ctx) error {
	classGroup := c.Params("class_group")
	year, month, err := registerWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	f, err := rc.exporter.MonthlyRegister(c.Context(), classGroup, year, month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build register",
		})
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render register",
		})
	}

	filename := fmt.Sprintf("register_%s_%d_%02d.xlsx", classGroup, year, int(month))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(buf.Bytes())
}

// ArchiveRegister renders the monthly register and stores it in S3
func (rc *ReportController) ArchiveRegister(c *fiber.Ctx) error {
	classGroup := c.Params("class_group")
	year, month, err := registerWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	key, err := rc.exporter.ExportToS3(c.Context(), classGroup, year, month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to archive register",
		})
	}

	middleware.LogActivity(c, "CREATE", "register_archive", 0, fiber.Map{
		"class_group": classGroup,
		"year":        year,
		"month":       int(month),
		"s3_key":      key,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Register archived",
		"s3_key":  key,
	})
}
