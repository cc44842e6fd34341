package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApproveFromPending(t *testing.T) {
	now := time.Now()
	u := &User{UserType: UserTypeCandidate}

	changed, err := u.Approve(now)
	if err != nil {
		t.Fatalf("approve: unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("approve: expected state change from pending")
	}
	if u.ApprovalStatus != StatusApproved {
		t.Fatalf("expected status %q got %q", StatusApproved, u.ApprovalStatus)
	}
	if u.ApprovedAt == nil || !u.ApprovedAt.Equal(now) {
		t.Fatalf("expected approvedAt %v got %v", now, u.ApprovedAt)
	}
	if u.Rejection != nil {
		t.Fatal("rejection metadata must be absent on an approved account")
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	now := time.Now()
	u := &User{UserType: UserTypeAgent}

	if _, err := u.Approve(now); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	firstApprovedAt := *u.ApprovedAt

	changed, err := u.Approve(now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if changed {
		t.Fatal("re-approving an approved account must be a no-op")
	}
	if !u.ApprovedAt.Equal(firstApprovedAt) {
		t.Fatalf("approvedAt changed on no-op approve: %v != %v", u.ApprovedAt, firstApprovedAt)
	}
	if u.ApprovalStatus != StatusApproved {
		t.Fatalf("expected status %q got %q", StatusApproved, u.ApprovalStatus)
	}
}

func TestRejectRecordsMetadata(t *testing.T) {
	now := time.Now()
	admin := primitive.NewObjectID()
	u := &User{UserType: UserTypeCandidate}

	changed, err := u.Reject("Incomplete profile", admin, now)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if !changed {
		t.Fatal("reject: expected state change")
	}
	if u.ApprovalStatus != StatusRejected {
		t.Fatalf("expected status %q got %q", StatusRejected, u.ApprovalStatus)
	}
	if u.Rejection == nil {
		t.Fatal("rejection metadata must be present on a rejected account")
	}
	if u.Rejection.Reason != "Incomplete profile" {
		t.Fatalf("expected reason %q got %q", "Incomplete profile", u.Rejection.Reason)
	}
	if u.Rejection.RejectedBy != admin {
		t.Fatalf("expected rejectedBy %s got %s", admin.Hex(), u.Rejection.RejectedBy.Hex())
	}
	if u.ApprovedAt != nil {
		t.Fatal("approvedAt must be cleared on reject")
	}
}

func TestRejectUnrejectRejectMostRecentWins(t *testing.T) {
	now := time.Now()
	admin := primitive.NewObjectID()
	u := &User{UserType: UserTypeCandidate}

	if _, err := u.Reject("spam", admin, now); err != nil {
		t.Fatalf("first reject: %v", err)
	}
	if _, err := u.Unreject(now.Add(time.Minute)); err != nil {
		t.Fatalf("unreject: %v", err)
	}
	if u.ApprovalStatus != StatusPending {
		t.Fatalf("expected status %q after unreject got %q", StatusPending, u.ApprovalStatus)
	}
	if u.Rejection != nil {
		t.Fatal("rejection metadata must be cleared on unreject")
	}
	if _, err := u.Reject("fraud", admin, now.Add(2*time.Minute)); err != nil {
		t.Fatalf("second reject: %v", err)
	}
	if u.ApprovalStatus != StatusRejected {
		t.Fatalf("expected status %q got %q", StatusRejected, u.ApprovalStatus)
	}
	if u.Rejection == nil || u.Rejection.Reason != "fraud" {
		t.Fatalf("expected most recent reason %q got %+v", "fraud", u.Rejection)
	}
}

func TestUnrejectRequiresRejected(t *testing.T) {
	now := time.Now()
	u := &User{UserType: UserTypeAgent}
	if _, err := u.Approve(now); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := u.Unreject(now); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition unrejecting an approved account, got %v", err)
	}

	pending := &User{UserType: UserTypeAgent}
	changed, err := pending.Unreject(now)
	if err != nil {
		t.Fatalf("unreject pending: %v", err)
	}
	if changed {
		t.Fatal("unrejecting a pending account must be a no-op")
	}
}

func TestExactlyOneStateHolds(t *testing.T) {
	now := time.Now()
	admin := primitive.NewObjectID()
	u := &User{UserType: UserTypeCandidate}

	steps := []func() error{
		func() error { _, err := u.Approve(now); return err },
		func() error { _, err := u.Reject("reason", admin, now); return err },
		func() error { _, err := u.Unreject(now); return err },
		func() error { _, err := u.Approve(now); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		status := u.NormalizeApprovalStatus()
		if status != StatusPending && status != StatusApproved && status != StatusRejected {
			t.Fatalf("step %d: unknown status %q", i, status)
		}
		if (u.Rejection != nil) != (status == StatusRejected) {
			t.Fatalf("step %d: rejection metadata presence (%v) disagrees with status %q", i, u.Rejection != nil, status)
		}
	}
}

func TestNormalizeLegacyFields(t *testing.T) {
	truthy := true
	falsy := false

	cases := []struct {
		name string
		user User
		want string
	}{
		{"legacy rejected boolean", User{IsRejected: &truthy, IsCandidateApproved: &truthy}, StatusRejected},
		{"legacy approved candidate", User{IsCandidateApproved: &truthy, IsRejected: &falsy}, StatusApproved},
		{"legacy agent verification rejected", User{AgentVerificationStatus: "rejected"}, StatusRejected},
		{"legacy agent verification approved", User{AgentVerificationStatus: "approved"}, StatusApproved},
		{"no fields at all", User{}, StatusPending},
		{"canonical field wins", User{ApprovalStatus: StatusApproved, IsRejected: &truthy}, StatusApproved},
	}

	for _, tc := range cases {
		u := tc.user
		if got := u.NormalizeApprovalStatus(); got != tc.want {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.want, got)
		}
	}
}
