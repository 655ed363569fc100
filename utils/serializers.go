package utils

import (
	"strings"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

// Compact representations used across APIs
type UserShort struct {
	ID       uint   `json:"id"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	Username string `json:"username,omitempty"`
}

type Sender struct {
	Type string `json:"type"` // "system" or "user"
	ID   *uint  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Recipient struct {
	Type string `json:"type"` // "user", "role", etc.
	ID   uint   `json:"id"`
}

type NotificationDTO struct {
	ID        uint        `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	UserID    uint        `json:"user_id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Type      string      `json:"type"`
	Read      bool        `json:"read"`
	ReadAt    *time.Time  `json:"read_at,omitempty"`
	Data      models.JSON `json:"data,omitempty"`
	User      UserShort   `json:"user"`
	Sender    Sender      `json:"sender"`
	Recipient Recipient   `json:"recipient"`
}

// ToNotificationDTO maps a models.Notification to the compact DTO.
// Assumptions: caller has preloaded User (and its profile) when possible.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		Data:      n.Data,
		User:      ToUserShort(n.User),
		Sender:    Sender{Type: "system", Name: "Notification Service"},
		Recipient: Recipient{Type: "user", ID: n.UserID},
	}
}

// ToUserShort maps a user to its compact form. The display name comes from
// the role profile when one is loaded, else from the username or email
// local-part.
func ToUserShort(u models.User) UserShort {
	name := ""
	switch {
	case u.Teacher != nil && u.Teacher.FullName != "":
		name = u.Teacher.FullName
	case u.Student != nil && u.Student.FullName != "":
		name = u.Student.FullName
	case u.Username != "":
		name = u.Username
	case u.Email != "":
		name = strings.Split(u.Email, "@")[0]
	}

	return UserShort{
		ID:       u.ID,
		Name:     name,
		Role:     u.Role,
		Username: u.Username,
	}
}
