package models

import "time"

// MessageType classifies admin messages.
type MessageType string

const (
	MessageGeneral      MessageType = "general"
	MessageNotification MessageType = "notification"
	MessageAlert        MessageType = "alert"
)

// Valid reports whether t is a recognized message type.
func (t MessageType) Valid() bool {
	switch t {
	case MessageGeneral, MessageNotification, MessageAlert:
		return true
	}
	return false
}

// DeliveryStatus tracks the push delivery lifecycle of a message.
type DeliveryStatus string

const (
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliveryRead      DeliveryStatus = "read"
)

// AdminMessage is a message sent by an administrator to a faculty member.
// The row is written first with status "sent"; the push delivery outcome is
// recorded afterwards and never rolls back the row.
type AdminMessage struct {
	ID             string         `db:"id" json:"id"`
	SenderEmail    string         `db:"sender_email" json:"sender_email"`
	RecipientEmail string         `db:"recipient_email" json:"recipient_email"`
	Subject        string         `db:"subject" json:"subject"`
	Message        string         `db:"message" json:"message"`
	MessageType    MessageType    `db:"message_type" json:"message_type"`
	DeliveryStatus DeliveryStatus `db:"delivery_status" json:"delivery_status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
	ReadAt         *time.Time     `db:"read_at" json:"read_at,omitempty"`
}

// MessageFilter narrows message listings.
type MessageFilter struct {
	RecipientEmail string
	Status         string
	Page           int
	PageSize       int
}
