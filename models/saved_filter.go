// models/saved_filter.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedFilter is an admin's stored account-listing filter. The old client
// kept these in browser localStorage, per device; they are now admin-scoped
// documents so they follow the admin across devices, with the same shape.
type SavedFilter struct {
	ID         string             `json:"id" bson:"_id"`
	AdminID    primitive.ObjectID `json:"adminId" bson:"adminId"`
	Name       string             `json:"name" bson:"name"`
	UserType   string             `json:"userType,omitempty" bson:"userType,omitempty"`
	Status     string             `json:"status,omitempty" bson:"status,omitempty"`
	Categories []string           `json:"categories,omitempty" bson:"categories,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// SaveFilterRequest is the body for POST /api/admin/filters.
type SaveFilterRequest struct {
	Name       string   `json:"name" validate:"required"`
	UserType   string   `json:"userType,omitempty"`
	Status     string   `json:"status,omitempty"`
	Categories []string `json:"categories,omitempty"`
}
