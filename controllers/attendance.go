package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services/notifications"

	"github.com/gofiber/fiber/v2"
)

// AttendanceController exposes the session marking flow: resolve the state
// for a class and period, submit a full status set, or reopen a submitted
// session for correction.
type AttendanceController struct {
	resolver *services.AttendanceSessionResolver
	store    services.AttendanceStore
}

func NewAttendanceController() *AttendanceController {
	return &AttendanceController{
		resolver: services.NewDefaultAttendanceSessionResolver(),
		store:    services.NewAttendanceStore(),
	}
}

// parseSessionDate reads an optional date query value, defaulting to today.
func parseSessionDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

// GetSession resolves the marking state for class/date/period
func (ac *AttendanceController) GetSession(c *fiber.Ctx) error {
	classGroup := c.Params("class_group")
	period, err := strconv.Atoi(c.Params("period"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid period",
		})
	}
	date, err := parseSessionDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	state, err := ac.resolver.Resolve(c.Context(), classGroup, date, period)
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve session",
		})
	}

	// An eligible session immediately carries its roster so the client can
	// render the marking sheet in one round trip.
	if state.Status == services.SessionEligible {
		if _, err := ac.resolver.LoadRoster(c.Context(), state); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load roster",
			})
		}
	}

	return c.JSON(fiber.Map{
		"session": state,
	})
}

// SubmitRequest is the session submission body. Statuses maps student id to
// "present" or "absent"; students missing from the map keep the seeded
// default.
type SubmitRequest struct {
	ClassGroup string            `json:"class_group" validate:"required"`
	Period     int               `json:"period" validate:"required"`
	Date       string            `json:"date"`
	Statuses   map[string]string `json:"statuses"`
}

// SubmitSession resolves, seeds and submits a new session in one call
func (ac *AttendanceController) SubmitSession(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	date, err := parseSessionDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	state, err := ac.resolver.Resolve(c.Context(), req.ClassGroup, date, req.Period)
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve session",
		})
	}

	if state.Status != services.SessionEligible {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "Session is not markable",
			"session": state,
		})
	}

	editor, err := ac.resolver.LoadRoster(c.Context(), state)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load roster",
		})
	}

	return ac.applyAndSubmit(c, editor, req.Statuses)
}

// EditRequest reopens a submitted session for correction
type EditRequest struct {
	ClassGroup string            `json:"class_group" validate:"required"`
	Period     int               `json:"period" validate:"required"`
	Date       string            `json:"date" validate:"required"`
	Statuses   map[string]string `json:"statuses"`
}

// EditSession reopens a marked session and overwrites its records in place
func (ac *AttendanceController) EditSession(c *fiber.Ctx) error {
	var req EditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Date is required",
		})
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	_, editor, err := ac.resolver.ReopenForEdit(c.Context(), req.ClassGroup, date, req.Period)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotConfigured):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, services.ErrNotMarked):
			// Never-marked sessions go through the create path, which
			// enforces the eligibility guards the edit path skips.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to reopen session",
			})
		}
	}

	return ac.applyAndSubmit(c, editor, req.Statuses)
}

// applyAndSubmit applies the requested status changes and persists the
// session batch under the caller's teacher profile.
func (ac *AttendanceController) applyAndSubmit(c *fiber.Ctx, editor *services.RosterEditor, statuses map[string]string) error {
	for rawID, status := range statuses {
		studentID, err := strconv.ParseUint(rawID, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid student id " + rawID,
			})
		}
		if err := editor.SetStatus(uint(studentID), status); err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrUnknownStudent):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to apply status",
				})
			}
		}
	}

	result, err := editor.Submit(c.Context(), ac.store, ac.recorderID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save attendance",
		})
	}

	middleware.LogActivity(c, "CREATE", "attendance", 0, result)
	ac.notifyAdmins(result)

	return c.JSON(fiber.Map{
		"message": "Attendance saved",
		"result":  result,
	})
}

// recorderID resolves the caller's teacher profile id; admins without a
// profile record as 0 (system).
func (ac *AttendanceController) recorderID(c *fiber.Ctx) uint {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return 0
	}
	var teacher models.Teacher
	if err := database.DB.Where("user_id = ?", user.ID).First(&teacher).Error; err != nil {
		return 0
	}
	return teacher.ID
}

// notifyAdmins tells the admins a session was submitted.
func (ac *AttendanceController) notifyAdmins(result *services.SubmitResult) {
	var adminIDs []uint
	if err := database.DB.Model(&models.User{}).
		Where("role = ? AND status = ?", "admin", "active").
		Pluck("id", &adminIDs).Error; err != nil || len(adminIDs) == 0 {
		return
	}

	notifier := notifications.NewService()
	payload := notifications.QueuedWithData(
		"Attendance Submitted",
		"Attendance for class "+result.ClassGroup+" ("+result.SubjectName+") was recorded.",
		"info",
		result,
	)
	// Submission must not fail because a notification did.
	_ = notifier.EnqueueOrCreate(adminIDs, payload)
}
