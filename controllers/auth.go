package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct{}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required"`
}

// Login authenticates a user and returns a JWT token
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var user models.User
	if err := database.DB.Where("username = ? AND status = ?", req.Username, "active").First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	database.DB.Preload("Teacher").Preload("Student").First(&user, user.ID)

	middleware.LogActivity(c, "LOGIN", "auth", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"avatar":   user.Avatar,
			"teacher":  user.Teacher,
			"student":  user.Student,
		},
	})
}

// Logout invalidates the current JWT by storing it in the Redis blacklist
// for 24 hours
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing authorization header"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid authorization header format"})
	}

	rc := database.GetRedisClient()
	if rc != nil {
		ctx := context.Background()
		key := "blacklist:jwt:" + tokenString
		if err := rc.Set(ctx, key, "1", 24*time.Hour).Err(); err != nil {
			// Redis failure must not block logout.
			middleware.LogActivity(c, "LOGOUT", "auth", 0, fiber.Map{"error": err.Error()})
		}
	}

	if user, err := middleware.GetCurrentUser(c); err == nil {
		middleware.LogActivity(c, "LOGOUT", "auth", user.ID, fiber.Map{"username": user.Username})
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Register creates a new user account (admin only)
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !utils.IsValidRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already exists",
		})
	}

	if req.Email != "" {
		if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already exists",
			})
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username: req.Username,
		Password: hashedPassword,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Status:   "active",
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// GetProfile returns the current user's profile
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	database.DB.Preload("Teacher").Preload("Student").First(user, user.ID)

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"phone":    user.Phone,
			"role":     user.Role,
			"status":   user.Status,
			"avatar":   user.Avatar,
			"teacher":  user.Teacher,
			"student":  user.Student,
		},
	})
}

// ChangePassword allows users to change their password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.CheckPassword(req.CurrentPassword, user.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	if err := database.DB.Model(user).Update("password", hashedPassword).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{
		"action": "password_change",
	})

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

// GeneratePasswordResetToken generates a password reset token for a user
// (admin only)
func (ac *AuthController) GeneratePasswordResetToken(c *fiber.Ctx) error {
	currentUser, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate reset token",
		})
	}
	token := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().Add(1 * time.Hour)

	if err := database.DB.Model(&targetUser).Updates(map[string]interface{}{
		"password_reset_token":   token,
		"password_reset_expires": expiresAt,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save reset token",
		})
	}

	middleware.LogActivity(c, "CREATE", "password_reset_token", targetUser.ID, fiber.Map{
		"target_user":  targetUser.Username,
		"generated_by": currentUser.Username,
		"expires_at":   expiresAt,
	})

	return c.JSON(fiber.Map{
		"message":    "Password reset token generated successfully",
		"token":      token,
		"expires_at": expiresAt,
		"user": fiber.Map{
			"id":       targetUser.ID,
			"username": targetUser.Username,
			"email":    targetUser.Email,
		},
	})
}

// ResetPasswordWithToken allows users to reset password using a valid token
func (ac *AuthController) ResetPasswordWithToken(c *fiber.Ctx) error {
	var req struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var user models.User
	if err := database.DB.Where("password_reset_token = ? AND password_reset_expires > ?",
		req.Token, time.Now()).First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired reset token",
		})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"password":               hashedPassword,
		"password_reset_token":   nil,
		"password_reset_expires": nil,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset password",
		})
	}

	middleware.LogActivity(c, "UPDATE", "password_reset_token", user.ID, fiber.Map{
		"username": user.Username,
		"method":   "token_reset",
	})

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}
