// models/approval.go
package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidTransition is returned when an approval action is requested from
// a state it is not defined for (e.g. unrejecting a non-rejected account).
// Re-applying an action the account is already in the target state for is a
// no-op, not an error, so user-initiated retries stay safe.
var ErrInvalidTransition = errors.New("invalid approval state transition")

// Approve moves a pending or rejected account to approved and clears any
// rejection metadata. Returns false when the account was already approved.
func (u *User) Approve(now time.Time) (bool, error) {
	switch u.NormalizeApprovalStatus() {
	case StatusApproved:
		return false, nil
	case StatusPending, StatusRejected:
		u.ApprovalStatus = StatusApproved
		u.ApprovedAt = &now
		u.Rejection = nil
		u.clearLegacyApprovalFields()
		u.UpdatedAt = now
		return true, nil
	default:
		return false, ErrInvalidTransition
	}
}

// Reject moves a pending or approved account to rejected, recording the
// acting admin and an optional free-text reason. Rejecting an already
// rejected account updates the metadata in place (most-recent-wins).
func (u *User) Reject(reason string, adminID primitive.ObjectID, now time.Time) (bool, error) {
	status := u.NormalizeApprovalStatus()
	if status != StatusPending && status != StatusApproved && status != StatusRejected {
		return false, ErrInvalidTransition
	}
	changed := status != StatusRejected || u.Rejection == nil || u.Rejection.Reason != reason
	u.ApprovalStatus = StatusRejected
	u.ApprovedAt = nil
	u.Rejection = &RejectionInfo{
		Reason:     reason,
		RejectedAt: now,
		RejectedBy: adminID,
	}
	u.clearLegacyApprovalFields()
	u.UpdatedAt = now
	return changed, nil
}

// Unreject moves a rejected account back to pending and clears all rejection
// metadata. Unrejecting a pending account is a no-op; any other state is an
// invalid transition.
func (u *User) Unreject(now time.Time) (bool, error) {
	switch u.NormalizeApprovalStatus() {
	case StatusPending:
		return false, nil
	case StatusRejected:
		u.ApprovalStatus = StatusPending
		u.Rejection = nil
		u.ApprovedAt = nil
		u.clearLegacyApprovalFields()
		u.UpdatedAt = now
		return true, nil
	default:
		return false, ErrInvalidTransition
	}
}

// clearLegacyApprovalFields drops the old boolean-pair/string representation
// so the document only carries the canonical ApprovalStatus after the next
// write.
func (u *User) clearLegacyApprovalFields() {
	u.IsCandidateApproved = nil
	u.IsRejected = nil
	u.AgentVerificationStatus = ""
}
