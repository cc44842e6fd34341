package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Admin struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"password,omitempty" bson:"password"`
	FullName       string             `json:"fullName" bson:"fullName"`
	ProfilePicture string             `json:"profilePicture,omitempty" bson:"profilePicture"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AdminDashboardStats represents statistics for the admin dashboard
type AdminDashboardStats struct {
	TotalCandidates    int64 `json:"totalCandidates"`
	PendingCandidates  int64 `json:"pendingCandidates"`
	ApprovedCandidates int64 `json:"approvedCandidates"`
	RejectedCandidates int64 `json:"rejectedCandidates"`
	TotalAgents        int64 `json:"totalAgents"`
	PendingAgents      int64 `json:"pendingAgents"`
	ApprovedAgents     int64 `json:"approvedAgents"`
	RejectedAgents     int64 `json:"rejectedAgents"`
	ActiveAssignments  int64 `json:"activeAssignments"`
	TotalMessages      int64 `json:"totalMessages"`
}

// AccountFilter represents filters for account listings
type AccountFilter struct {
	UserType   string   `json:"userType,omitempty"`
	Status     string   `json:"status,omitempty"`
	Categories []string `json:"categories,omitempty"`
	SearchTerm string   `json:"searchTerm,omitempty"`
	Limit      int64    `json:"limit,omitempty"`
}

// RejectAccountRequest is the body for the admin reject action. Reason is
// optional free text and may be an empty string.
type RejectAccountRequest struct {
	Reason string `json:"reason"`
}

// AssignAgentRequest is the body for admin assign/unassign actions.
type AssignAgentRequest struct {
	CandidateID string `json:"candidateId" validate:"required"`
	AgentID     string `json:"agentId" validate:"required"`
}

// UpdateAgentStatsRequest is the body for the admin stats edit action.
type UpdateAgentStatsRequest struct {
	SuccessRate  *float64 `json:"successRate,omitempty"`
	TotalClients *int     `json:"totalClients,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
}

// SetCategoriesRequest replaces an account's category set wholesale.
type SetCategoriesRequest struct {
	Categories []string `json:"categories"`
}
