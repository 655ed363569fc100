package controllers

import (
	"strconv"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"

	"github.com/gofiber/fiber/v2"
)

type TeacherController struct{}

// GetTeachers returns all teachers with pagination
func (tc *TeacherController) GetTeachers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var teachers []models.Teacher
	var total int64

	query := database.DB.Model(&models.Teacher{})

	if active := c.Query("active"); active == "false" {
		query = query.Where("active = ?", false)
	} else {
		query = query.Where("active = ?", true)
	}

	query.Count(&total)

	if err := query.Preload("User").
		Offset(offset).Limit(limit).Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teachers",
		})
	}

	return c.JSON(fiber.Map{
		"teachers": teachers,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetTeacher returns a specific teacher by ID
func (tc *TeacherController) GetTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.Preload("User").First(&teacher, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	return c.JSON(fiber.Map{
		"teacher":         teacher,
		"subjects_taught": teacher.TaughtSubjects(),
	})
}

// CreateTeacher creates a new teacher profile
func (tc *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	var teacher models.Teacher
	if err := c.BodyParser(&teacher); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if teacher.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}
	if teacher.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Full name is required",
		})
	}

	// The linked account must carry the teacher role.
	var user models.User
	if err := database.DB.Where("id = ? AND role = ?", teacher.UserID, "teacher").
		First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User not found or not a teacher",
		})
	}

	var existingTeacher models.Teacher
	if err := database.DB.Where("user_id = ?", teacher.UserID).
		First(&existingTeacher).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Teacher profile already exists for this user",
		})
	}

	teacher.Active = true

	if err := database.DB.Create(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create teacher profile",
		})
	}

	database.DB.Preload("User").First(&teacher, teacher.ID)

	middleware.LogActivity(c, "CREATE", "teachers", teacher.ID, teacher)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Teacher profile created successfully",
		"teacher": teacher,
	})
}

// UpdateTeacher updates an existing teacher profile
func (tc *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	var updateData models.Teacher
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// The account link is immutable.
	updateData.UserID = teacher.UserID

	if err := database.DB.Model(&teacher).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update teacher profile",
		})
	}

	database.DB.Preload("User").First(&teacher, teacher.ID)

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Teacher profile updated successfully",
		"teacher": teacher,
	})
}

// DeleteTeacher deletes a teacher profile
func (tc *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	if err := database.DB.Delete(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete teacher profile",
		})
	}

	middleware.LogActivity(c, "DELETE", "teachers", teacher.ID, teacher)

	return c.JSON(fiber.Map{
		"message": "Teacher profile deleted successfully",
	})
}

// GetTeacherSubjects returns the subjects the teacher may be assigned to
func (tc *TeacherController) GetTeacherSubjects(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	return c.JSON(fiber.Map{
		"teacher_id":      teacher.ID,
		"subjects_taught": teacher.TaughtSubjects(),
	})
}
