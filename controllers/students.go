package controllers

import (
	"strconv"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

// GetStudents returns all students with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if classGroup := c.Query("class_group"); classGroup != "" {
		query = query.Where("class_group = ?", classGroup)
	}

	if active := c.Query("active"); active == "false" {
		query = query.Where("active = ?", false)
	} else {
		query = query.Where("active = ?", true)
	}

	query.Count(&total)

	if err := query.Preload("User").Order("class_group, roll_no").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("User").First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// GetClassRoster returns the active students of one class group in roll
// number order
func (sc *StudentController) GetClassRoster(c *fiber.Ctx) error {
	classGroup := c.Params("class_group")
	if classGroup == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Class group is required",
		})
	}

	var students []models.Student
	if err := database.DB.Where("class_group = ? AND active = ?", classGroup, true).
		Order("roll_no").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch roster",
		})
	}

	return c.JSON(fiber.Map{
		"class_group": classGroup,
		"students":    students,
		"total":       len(students),
	})
}

// CreateStudent creates a new student profile
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if student.UserID == 0 || student.FullName == "" || student.ClassGroup == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID, full name and class group are required",
		})
	}

	var user models.User
	if err := database.DB.Where("id = ? AND role = ?", student.UserID, "student").
		First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User not found or not a student",
		})
	}

	var existingStudent models.Student
	if err := database.DB.Where("user_id = ?", student.UserID).
		First(&existingStudent).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Student profile already exists for this user",
		})
	}

	student.Active = true

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student profile",
		})
	}

	database.DB.Preload("User").First(&student, student.ID)

	middleware.LogActivity(c, "CREATE", "students", student.ID, student)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student profile created successfully",
		"student": student,
	})
}

// UpdateStudent updates an existing student profile
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var updateData models.Student
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// The account link is immutable.
	updateData.UserID = student.UserID

	if err := database.DB.Model(&student).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student profile",
		})
	}

	database.DB.Preload("User").First(&student, student.ID)

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Student profile updated successfully",
		"student": student,
	})
}

// DeleteStudent deletes a student profile
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student profile",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, student)

	return c.JSON(fiber.Map{
		"message": "Student profile deleted successfully",
	})
}
