// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval states for candidate and agent accounts
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User types
const (
	UserTypeCandidate = "candidate"
	UserTypeAgent     = "agent"
	UserTypeAdmin     = "admin"
)

// RejectionInfo holds the metadata recorded when an admin rejects an account.
// It must be present iff the account status is "rejected".
type RejectionInfo struct {
	Reason     string             `json:"reason" bson:"reason"`
	RejectedAt time.Time          `json:"rejectedAt" bson:"rejectedAt"`
	RejectedBy primitive.ObjectID `json:"rejectedBy" bson:"rejectedBy"`
}

// User model. One document per person, role-tagged via UserType which is
// fixed at creation and never changes.
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"password,omitempty" bson:"password"`
	FullName       string             `json:"fullName" bson:"fullName"`
	UserType       string             `json:"userType" bson:"userType"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	ApprovalStatus string             `json:"approvalStatus,omitempty" bson:"approvalStatus,omitempty"`
	ApprovedAt     *time.Time         `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	Rejection      *RejectionInfo     `json:"rejection,omitempty" bson:"rejection,omitempty"`
	Categories     []string           `json:"categories,omitempty" bson:"categories,omitempty"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfilePic     string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	LastActivityAt time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	GoogleUID      string             `json:"googleUID,omitempty" bson:"googleUID,omitempty"`
	FCMToken       string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Candidate only: ordered list of assigned agents, duplicates disallowed.
	// Source of truth for "who can this candidate message"; the assignments
	// collection is the audit trail.
	AssignedAgentIDs []primitive.ObjectID `json:"assignedAgentIds,omitempty" bson:"assignedAgentIds,omitempty"`

	// Agent only
	AgentInfo *AgentInfo `json:"agentInfo,omitempty" bson:"agentInfo,omitempty"`

	// Legacy approval fields kept for documents written by the old client.
	// NormalizeApprovalStatus folds them into ApprovalStatus on read; new
	// writes only touch ApprovalStatus.
	IsCandidateApproved     *bool  `json:"-" bson:"isCandidateApproved,omitempty"`
	IsRejected              *bool  `json:"-" bson:"isRejected,omitempty"`
	AgentVerificationStatus string `json:"-" bson:"agentVerificationStatus,omitempty"`
}

// AgentInfo holds the agent-specific profile fields.
type AgentInfo struct {
	Platforms        []string           `json:"platforms,omitempty" bson:"platforms,omitempty"`
	Pricing          map[string]float64 `json:"pricing,omitempty" bson:"pricing,omitempty"`
	PercentageCharge float64            `json:"percentageCharge,omitempty" bson:"percentageCharge,omitempty"`
	OneTimeFee       float64            `json:"oneTimeFee,omitempty" bson:"oneTimeFee,omitempty"`
	WorkingHours     *WorkingHours      `json:"workingHours,omitempty" bson:"workingHours,omitempty"`
	Stats            AgentStats         `json:"stats" bson:"stats"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	VerificationDocs []string           `json:"verificationDocs,omitempty" bson:"verificationDocs,omitempty"`
	IntroVideo       string             `json:"introVideo,omitempty" bson:"introVideo,omitempty"`
	IntroThumbnail   string             `json:"introThumbnail,omitempty" bson:"introThumbnail,omitempty"`
	ShareQR          string             `json:"shareQr,omitempty" bson:"shareQr,omitempty"`
}

// UpdateAgentProfileRequest is the body for the agent's own profile edit.
// Nil fields are left unchanged.
type UpdateAgentProfileRequest struct {
	Description      *string            `json:"description,omitempty"`
	Platforms        []string           `json:"platforms,omitempty"`
	Pricing          map[string]float64 `json:"pricing,omitempty"`
	PercentageCharge *float64           `json:"percentageCharge,omitempty"`
	OneTimeFee       *float64           `json:"oneTimeFee,omitempty"`
	WorkingHours     *WorkingHours      `json:"workingHours,omitempty"`
}

// WorkingHours is the agent's daily availability window, "15:04" format.
type WorkingHours struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// AgentStats are the admin-editable performance numbers shown on listings.
type AgentStats struct {
	SuccessRate  float64 `json:"successRate" bson:"successRate"`
	TotalClients int     `json:"totalClients" bson:"totalClients"`
	Rating       float64 `json:"rating" bson:"rating"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NormalizeApprovalStatus resolves the canonical tri-state from whatever mix
// of fields the document carries. Legacy documents used an
// isCandidateApproved/isRejected boolean pair for candidates and an
// agentVerificationStatus string for agents; when old and new fields are both
// present and disagree, rejected wins over approved wins over pending, and
// the next state transition rewrites the document with only ApprovalStatus.
func (u *User) NormalizeApprovalStatus() string {
	if u.ApprovalStatus != "" {
		return u.ApprovalStatus
	}
	if u.IsRejected != nil && *u.IsRejected {
		u.ApprovalStatus = StatusRejected
		return u.ApprovalStatus
	}
	if u.AgentVerificationStatus == StatusRejected {
		u.ApprovalStatus = StatusRejected
		return u.ApprovalStatus
	}
	if u.IsCandidateApproved != nil && *u.IsCandidateApproved {
		u.ApprovalStatus = StatusApproved
		return u.ApprovalStatus
	}
	if u.AgentVerificationStatus == StatusApproved {
		u.ApprovalStatus = StatusApproved
		return u.ApprovalStatus
	}
	u.ApprovalStatus = StatusPending
	return u.ApprovalStatus
}

// IsApproved reports whether the account is currently approved.
func (u *User) IsApproved() bool {
	return u.NormalizeApprovalStatus() == StatusApproved
}
