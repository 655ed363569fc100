package controllers

import (
	"strconv"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

// GetNotifications returns the current user's notifications
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID)
	if c.Query("unread") == "true" {
		query = query.Where("`read` = ?", false)
	}

	var total int64
	query.Count(&total)

	var notifs []models.Notification
	if err := query.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&notifs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch notifications",
		})
	}

	dtos := make([]utils.NotificationDTO, 0, len(notifs))
	for _, n := range notifs {
		dtos = append(dtos, utils.ToNotificationDTO(n))
	}

	return c.JSON(fiber.Map{
		"notifications": dtos,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// MarkAsRead marks one notification of the current user as read
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	var notif models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id), user.ID).
		First(&notif).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	now := time.Now()
	if err := database.DB.Model(&notif).Updates(map[string]interface{}{
		"read":    true,
		"read_at": now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark notification as read",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

// MarkAllAsRead marks every unread notification of the current user as read
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": now,
		})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark notifications as read",
		})
	}

	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": result.RowsAffected,
	})
}

// GetUnreadCount returns the unread notification count for badges
func (nc *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var count int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).
		Count(&count)

	return c.JSON(fiber.Map{
		"unread": count,
	})
}
