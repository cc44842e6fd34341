package controllers

import (
	"testing"

	"github.com/talentlink-app/talentlink_backend/models"
)

func approvedUser(userType string) *models.User {
	return &models.User{UserType: userType, ApprovalStatus: models.StatusApproved}
}

func TestMessagingPairAllowedAcrossRoles(t *testing.T) {
	candidate := approvedUser(models.UserTypeCandidate)
	agent := approvedUser(models.UserTypeAgent)

	if !messagingPairAllowed(candidate, agent) {
		t.Fatal("approved candidate should be able to message an approved agent")
	}
	if !messagingPairAllowed(agent, candidate) {
		t.Fatal("approved agent should be able to message an approved candidate")
	}
}

func TestMessagingPairBlockedAfterRejection(t *testing.T) {
	candidate := approvedUser(models.UserTypeCandidate)
	agent := approvedUser(models.UserTypeAgent)

	rejectedAgent := &models.User{UserType: models.UserTypeAgent, ApprovalStatus: models.StatusRejected}
	if messagingPairAllowed(candidate, rejectedAgent) {
		t.Fatal("candidate must not reach an agent rejected after assignment")
	}

	rejectedCandidate := &models.User{UserType: models.UserTypeCandidate, ApprovalStatus: models.StatusRejected}
	if messagingPairAllowed(agent, rejectedCandidate) {
		t.Fatal("agent must not reach a candidate rejected after assignment")
	}

	pendingAgent := &models.User{UserType: models.UserTypeAgent, ApprovalStatus: models.StatusPending}
	if messagingPairAllowed(candidate, pendingAgent) {
		t.Fatal("candidate must not reach an agent moved back to pending")
	}
}

func TestMessagingPairBlockedByLegacyRejection(t *testing.T) {
	candidate := approvedUser(models.UserTypeCandidate)

	rejected := true
	legacyRejectedAgent := &models.User{UserType: models.UserTypeAgent, IsRejected: &rejected}
	if messagingPairAllowed(candidate, legacyRejectedAgent) {
		t.Fatal("legacy rejection flag must block messaging the same as the canonical status")
	}
}

func TestMessagingPairRejectsSameRole(t *testing.T) {
	if messagingPairAllowed(approvedUser(models.UserTypeCandidate), approvedUser(models.UserTypeCandidate)) {
		t.Fatal("two candidates must not message each other")
	}
	if messagingPairAllowed(approvedUser(models.UserTypeAgent), approvedUser(models.UserTypeAgent)) {
		t.Fatal("two agents must not message each other")
	}
}
