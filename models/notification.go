package models

import "time"

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusPartial = "partial"

	TypeOrderConfirmation = "order_confirmation"
	TypeOrderPlaced       = "order_placed"
)

// NotificationLog records one email dispatch attempt.
type NotificationLog struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Recipient  string    `json:"recipient" gorm:"type:varchar(320);not null"`
	Type       string    `json:"type" gorm:"type:varchar(64);not null"`
	OrderID    string    `json:"order_id" gorm:"type:varchar(64);index"`
	Status     string    `json:"status" gorm:"type:varchar(20);not null"`
	Attachment bool      `json:"attachment"`
	MessageID  string    `json:"message_id,omitempty" gorm:"type:varchar(128)"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
