// models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message statuses
const (
	MessageUnread   = "unread"
	MessageRead     = "read"
	MessageAccepted = "accepted"
	MessageRejected = "rejected"
)

// Message types
const (
	MessageTypeGeneral             = "general"
	MessageTypeServiceRequest      = "service_request"
	MessageTypePaymentConfirmation = "payment_confirmation"
)

// Message is a single sent message. Immutable after creation except for the
// status and saved flags. ConversationID may be empty on rows written by the
// old client and is backfilled when the conversation is opened; new writes
// always carry it.
type Message struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID string             `json:"conversationId,omitempty" bson:"conversationId,omitempty"`
	SenderID       primitive.ObjectID `json:"senderId" bson:"senderId"`
	SenderName     string             `json:"senderName" bson:"senderName"`
	RecipientID    primitive.ObjectID `json:"recipientId" bson:"recipientId"`
	RecipientName  string             `json:"recipientName" bson:"recipientName"`
	Subject        string             `json:"subject,omitempty" bson:"subject,omitempty"`
	Body           string             `json:"body" bson:"body"`
	Status         string             `json:"status" bson:"status"`
	Type           string             `json:"type" bson:"type"`
	Saved          bool               `json:"saved" bson:"saved"`
	IsReply        bool               `json:"isReply" bson:"isReply"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

// SendMessageRequest is the body for POST /api/messages.
type SendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Subject     string `json:"subject"`
	Body        string `json:"body" validate:"required"`
	Type        string `json:"type"`
	IsReply     bool   `json:"isReply"`
}

// ValidMessageStatus reports whether s is one of the known message statuses.
func ValidMessageStatus(s string) bool {
	switch s {
	case MessageUnread, MessageRead, MessageAccepted, MessageRejected:
		return true
	}
	return false
}

// ValidMessageType reports whether t is one of the known message types.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeGeneral, MessageTypeServiceRequest, MessageTypePaymentConfirmation:
		return true
	}
	return false
}
