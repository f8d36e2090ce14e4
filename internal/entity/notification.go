package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationInfo    = "info"
	NotificationAlert   = "alert"
	NotificationSuccess = "success"
)

// Notification é uma entrada append-only do sino do painel.
type Notification struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
	Read    bool      `json:"read"`
}

func NewNotification(title, message, typ string) Notification {
	return Notification{
		ID:      uuid.New().String(),
		Title:   title,
		Message: message,
		Type:    typ,
		Time:    time.Now(),
	}
}

// Activity é o registro de auditoria leve mostrado na timeline.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Entity      string    `json:"entity"`
	Time        time.Time `json:"time"`
}

func NewActivity(typ, title, description, entityName string) Activity {
	return Activity{
		ID:          uuid.New().String(),
		Type:        typ,
		Title:       title,
		Description: description,
		Entity:      entityName,
		Time:        time.Now(),
	}
}
