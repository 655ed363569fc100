package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDMiddleware tags every request with an id for log correlation.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"request_id": c.Locals("request_id"),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// LogActivity records a user action. The record goes to the Redis cache
// first; the archive service flushes the cache to the database later. If
// Redis is unavailable the record is written to the database directly.
func LogActivity(c *fiber.Ctx, action, resource string, resourceID uint, details interface{}) {
	user, err := GetCurrentUser(c)
	if err != nil {
		// Unauthenticated requests log as system actions.
		user = &models.User{BaseModel: models.BaseModel{ID: 0}}
	}

	requestID, _ := c.Locals("request_id").(string)
	enriched := map[string]interface{}{
		"details":     details,
		"request_id":  requestID,
		"method":      c.Method(),
		"path":        c.Path(),
		"query":       string(c.Request().URI().QueryString()),
		"status_code": c.Response().StatusCode(),
	}

	activityLog := models.ActivityLog{
		UserID:     user.ID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	}
	activityLog.CreatedAt = time.Now()

	if detailsJSON, err := json.Marshal(enriched); err == nil {
		activityLog.Details = detailsJSON
	}

	go func(al models.ActivityLog) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in LogActivity goroutine")
			}
		}()

		if err := cacheActivityLog(al); err != nil {
			logrus.WithError(err).Warn("Failed to cache activity log, saving directly to database")
			if database.DB == nil {
				logrus.Error("database.DB is nil; cannot save activity log to database")
				return
			}
			if dbErr := database.DB.Create(&al).Error; dbErr != nil {
				logrus.WithError(dbErr).Error("Failed to save activity log to database")
			}
		}
	}(activityLog)
}

// cacheActivityLog stores the record in Redis with a 24-hour TTL and queues
// it for the batch flush.
func cacheActivityLog(log models.ActivityLog) error {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return fmt.Errorf("redis client is nil")
	}
	ctx := context.Background()

	logData, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %v", err)
	}

	cacheKey := fmt.Sprintf("log:%d:%s:%s", log.UserID, log.Action, uuid.NewString())

	if err := redisClient.Set(ctx, cacheKey, logData, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to cache log: %v", err)
	}

	if err := redisClient.ZAdd(ctx, "logs:queue", &redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: cacheKey,
	}).Err(); err != nil {
		logrus.WithError(err).Error("Failed to add log to processing queue")
	}

	return nil
}

// LogActivityMiddleware automatically logs mutating operations
func LogActivityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Reads and auth endpoints are not logged.
		if c.Method() == "GET" || strings.Contains(c.Path(), "/auth/") {
			return c.Next()
		}

		err := c.Next()

		var action string
		switch c.Method() {
		case "POST":
			action = "CREATE"
		case "PUT", "PATCH":
			action = "UPDATE"
		case "DELETE":
			action = "DELETE"
		default:
			return err
		}

		// Assumes /api/resource/... paths.
		pathParts := strings.Split(strings.Trim(c.Path(), "/"), "/")
		var resource string
		if len(pathParts) >= 2 {
			resource = pathParts[1]
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsed, parseErr := strconv.ParseUint(id, 10, 32); parseErr == nil {
				resourceID = uint(parsed)
			}
		}

		if c.Response().StatusCode() < 400 {
			LogActivity(c, action, resource, resourceID, nil)
		}

		return err
	}
}
