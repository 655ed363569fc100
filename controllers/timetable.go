package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services"

	"github.com/gofiber/fiber/v2"
)

// TimetableController exposes the weekly grid. The grid service carries the
// subject palette, so one controller instance serves all requests to keep
// subject colors stable across them.
type TimetableController struct {
	grid *services.TimetableGrid
}

func NewTimetableController() *TimetableController {
	return &TimetableController{grid: services.NewDefaultTimetableGrid()}
}

// parseDay accepts a weekday as a number (0=Sunday) or a name.
func parseDay(raw string) (time.Weekday, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || n > 6 {
			return time.Sunday, errors.New("day out of range")
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), raw) {
			return d, nil
		}
	}
	return time.Sunday, errors.New("unknown day")
}

// GetWeek returns the rendered weekly grid for a class group
func (tc *TimetableController) GetWeek(c *fiber.Ctx) error {
	classGroup := c.Params("class_group")
	if classGroup == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Class group is required",
		})
	}

	cells, err := tc.grid.WeekView(c.Context(), classGroup)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load timetable",
		})
	}

	return c.JSON(fiber.Map{
		"class_group": classGroup,
		"cells":       cells,
	})
}

// GetSlot returns one cell of the grid
func (tc *TimetableController) GetSlot(c *fiber.Ctx) error {
	classGroup := c.Params("class_group")
	day, err := parseDay(c.Query("day"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day",
		})
	}
	period, err := strconv.Atoi(c.Query("period"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid period",
		})
	}

	slot, err := tc.grid.GetSlot(c.Context(), classGroup, day, period)
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load slot",
		})
	}

	return c.JSON(fiber.Map{
		"slot":  slot,
		"color": tc.grid.ColorFor(slot.SubjectName),
	})
}

// SlotRequest is the slot assignment request body
type SlotRequest struct {
	Day         string `json:"day" validate:"required"`
	Period      int    `json:"period" validate:"required"`
	SubjectName string `json:"subject_name"`
	TeacherID   *uint  `json:"teacher_id"`
}

// PutSlot assigns, reassigns or clears one cell of the grid
func (tc *TimetableController) PutSlot(c *fiber.Ctx) error {
	classGroup := c.Params("class_group")

	var req SlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	day, err := parseDay(req.Day)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day",
		})
	}

	slot, err := tc.grid.SetSlot(c.Context(), classGroup, day, req.Period, req.SubjectName, req.TeacherID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotConfigured), errors.Is(err, services.ErrInvalidAssignment):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save slot",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "timetable", 0, fiber.Map{
		"class_group": classGroup,
		"day":         day.String(),
		"period":      req.Period,
		"subject":     req.SubjectName,
		"teacher_id":  req.TeacherID,
	})

	return c.JSON(fiber.Map{
		"message": "Slot saved",
		"slot":    slot,
		"color":   tc.grid.ColorFor(slot.SubjectName),
	})
}
