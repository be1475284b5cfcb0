package model

import "time"

// NotificationType classifies an in-app notification.
type NotificationType string

const (
	NotificationInfo         NotificationType = "INFO"
	NotificationWarning      NotificationType = "WARNING"
	NotificationUrgent       NotificationType = "URGENT"
	NotificationReminder     NotificationType = "REMINDER"
	NotificationAnnouncement NotificationType = "ANNOUNCEMENT"
)

// Notification is an in-app message addressed to one account.
type Notification struct {
	ID          int64            `json:"id"`
	RecipientID int              `json:"recipient_id"`
	SenderID    *int             `json:"sender_id,omitempty"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Link        string           `json:"link,omitempty"`
	IsRead      bool             `json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NotificationListQuery is the query string of the notification listing.
type NotificationListQuery struct {
	Page       int  `form:"page" binding:"omitempty,min=1"`
	PerPage    int  `form:"per_page" binding:"omitempty,min=1,max=100"`
	UnreadOnly bool `form:"unread_only"`
}
