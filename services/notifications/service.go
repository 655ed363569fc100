package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/config"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/utils"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Queue item stored in Redis. One payload may fan out to many users; the
// database write is the source of truth, the queue only defers it.
type queuedNotification struct {
	UserIDs   []uint    `json:"user_ids"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const redisListKey = "notifications:queue"

// Service exposes notification creation with an optional Redis queue.
// If Redis is disabled or unavailable it performs direct DB inserts.
type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	useRedis bool
	wsHub    WSHub
}

// WSHub interface for WebSocket broadcasting
type WSHub interface {
	BroadcastToUser(userID uint, message interface{})
}

// defaultHub lets services created in different parts of the app (e.g. the
// reminder sweep) broadcast over the same hub without manual wiring.
var defaultHub WSHub

// SetDefaultWSHub sets the package-level default WebSocket hub used by new Service instances.
func SetDefaultWSHub(h WSHub) {
	defaultHub = h
}

func NewService() *Service {
	return &Service{
		db:       database.GetDB(),
		redis:    database.GetRedisClient(),
		useRedis: config.AppConfig != nil && config.AppConfig.UseRedisNotifications && database.GetRedisClient() != nil,
		wsHub:    defaultHub,
	}
}

// SetWebSocketHub sets the WebSocket hub for real-time notifications
func (s *Service) SetWebSocketHub(hub WSHub) {
	s.wsHub = hub
}

// Queued builds a minimal queuedNotification payload.
func Queued(title, message, typ string) queuedNotification {
	return queuedNotification{Title: title, Message: message, Type: typ}
}

// QueuedWithData attaches a structured data payload (deep-links/actions).
func QueuedWithData(title, message, typ string, data any) queuedNotification {
	return queuedNotification{Title: title, Message: message, Type: typ, Data: data}
}

// EnqueueOrCreate stores notifications using the Redis queue if enabled,
// else direct insert.
func (s *Service) EnqueueOrCreate(userIDs []uint, n queuedNotification) error {
	if len(userIDs) == 0 {
		return errors.New("no user ids")
	}
	n.UserIDs = userIDs
	n.CreatedAt = time.Now().UTC()

	if s.useRedis {
		b, err := json.Marshal(n)
		if err != nil {
			return err
		}
		if err = s.redis.RPush(context.Background(), redisListKey, b).Err(); err == nil {
			return nil
		}
		log.Printf("[notif] Redis queue failed, falling back to direct insert: %v", err)
	}

	return s.createDirect(userIDs, n)
}

// createDirect writes directly to DB (used by worker or fallback).
func (s *Service) createDirect(userIDs []uint, n queuedNotification) error {
	if len(userIDs) == 0 {
		return nil
	}

	var dataJSON []byte
	if n.Data != nil {
		if b, err := json.Marshal(n.Data); err == nil {
			dataJSON = b
		}
	}

	notifs := make([]models.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		notifs = append(notifs, models.Notification{
			UserID:  uid,
			Title:   n.Title,
			Message: n.Message,
			Type:    n.Type,
			Read:    false,
			Data:    dataJSON,
		})
	}

	if err := s.db.Create(&notifs).Error; err != nil {
		return err
	}

	if s.wsHub != nil {
		for _, notif := range notifs {
			s.db.Preload("User").First(&notif, notif.ID)
			s.wsHub.BroadcastToUser(notif.UserID, map[string]interface{}{
				"type": "notification",
				"data": utils.ToNotificationDTO(notif),
			})
		}
	}

	return nil
}

// StartWorker starts a background worker polling the Redis queue and
// flushing to DB.
func (s *Service) StartWorker(stop <-chan struct{}) {
	if !s.useRedis {
		log.Println("[notif] Redis notifications disabled; worker not started")
		return
	}
	go func() {
		log.Println("[notif] Redis notification worker started")
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		ctx := context.Background()
		batchSize := 200
		for {
			select {
			case <-stop:
				log.Println("[notif] Worker stopping")
				return
			case <-ticker.C:
				s.flushBatch(ctx, batchSize)
			}
		}
	}()
}

// flushBatch polls the redis queue and processes notifications in batches.
func (s *Service) flushBatch(ctx context.Context, batchSize int) {
	if s.redis == nil {
		return
	}
	for i := 0; i < 5; i++ { // up to 5 sub-batches per tick
		vals, err := s.redis.LRange(ctx, redisListKey, 0, int64(batchSize-1)).Result()
		if err != nil || len(vals) == 0 {
			return
		}
		// Trim immediately to avoid duplicates (best-effort)
		if err = s.redis.LTrim(ctx, redisListKey, int64(len(vals)), -1).Err(); err != nil {
			log.Printf("[notif] LTrim failed: %v", err)
		}
		for _, raw := range vals {
			var q queuedNotification
			if err := json.Unmarshal([]byte(raw), &q); err != nil {
				continue
			}
			if err := s.createDirect(q.UserIDs, q); err != nil {
				log.Printf("[notif] DB insert failed (retry later?): %v", err)
			}
		}
		if len(vals) < batchSize {
			return
		}
	}
}
