package controllers

import (
	"strconv"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services"

	"github.com/gofiber/fiber/v2"
)

type LogController struct {
	archive *services.LogArchiveService
}

func NewLogController() *LogController {
	return &LogController{archive: services.NewLogArchiveService()}
}

// GetActivityLogs returns activity logs with pagination (admin only)
func (lc *LogController) GetActivityLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ActivityLog{})

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var total int64
	query.Count(&total)

	var logs []models.ActivityLog
	if err := query.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetArchives lists archived log files (admin only)
func (lc *LogController) GetArchives(c *fiber.Ctx) error {
	archives, err := lc.archive.GetArchivedLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch archives",
		})
	}

	return c.JSON(fiber.Map{
		"archives": archives,
	})
}

// DownloadArchive streams one archive from S3 (admin only)
func (lc *LogController) DownloadArchive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid archive ID",
		})
	}

	reader, fileName, err := lc.archive.DownloadArchivedLogs(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer reader.Close()

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", "attachment; filename="+fileName)
	return c.SendStream(reader)
}

// FlushLogs forces a cache flush to the database (admin only)
func (lc *LogController) FlushLogs(c *fiber.Ctx) error {
	if err := lc.archive.FlushCachedLogsToDatabase(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cached logs flushed to database",
	})
}
