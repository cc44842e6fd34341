package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAssignmentPairKeyDeterministic(t *testing.T) {
	cand := primitive.NewObjectID()
	agent := primitive.NewObjectID()

	key := AssignmentPairKey(cand, agent)
	if key != AssignmentPairKey(cand, agent) {
		t.Fatal("pair key must be deterministic for the same pair")
	}
	if key == AssignmentPairKey(agent, cand) {
		t.Fatal("pair key is directional: candidate_agent, not symmetric")
	}
	if key != cand.Hex()+"_"+agent.Hex() {
		t.Fatalf("unexpected key format: %s", key)
	}
}

func TestAppendAgentIDDedup(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	list, added := AppendAgentID(nil, a)
	if !added || len(list) != 1 {
		t.Fatalf("expected first append to grow list, got %v added=%v", list, added)
	}
	list, added = AppendAgentID(list, a)
	if added || len(list) != 1 {
		t.Fatalf("duplicate append must not grow the list, got len=%d added=%v", len(list), added)
	}
	list, added = AppendAgentID(list, b)
	if !added || len(list) != 2 {
		t.Fatalf("expected second agent to be appended, got len=%d added=%v", len(list), added)
	}
}

func TestRemoveAgentID(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	list := []primitive.ObjectID{a, b, a}
	list = RemoveAgentID(list, a)
	if len(list) != 1 || list[0] != b {
		t.Fatalf("expected only %s to remain, got %v", b.Hex(), list)
	}
	list = RemoveAgentID(list, a)
	if len(list) != 1 {
		t.Fatal("removing an absent id must be a no-op")
	}
}

func TestFilterApprovedAgents(t *testing.T) {
	now := time.Now()
	approved := &User{ID: primitive.NewObjectID(), UserType: UserTypeAgent}
	if _, err := approved.Approve(now); err != nil {
		t.Fatalf("approve: %v", err)
	}
	rejected := &User{ID: primitive.NewObjectID(), UserType: UserTypeAgent}
	if _, err := rejected.Reject("fraud", primitive.NewObjectID(), now); err != nil {
		t.Fatalf("reject: %v", err)
	}
	pending := &User{ID: primitive.NewObjectID(), UserType: UserTypeAgent}
	deleted := primitive.NewObjectID() // not present in the lookup map

	agents := map[primitive.ObjectID]*User{
		approved.ID: approved,
		rejected.ID: rejected,
		pending.ID:  pending,
	}

	// Simulates a stale cascade: the raw list still references the rejected
	// and deleted agents.
	assigned := []primitive.ObjectID{approved.ID, rejected.ID, pending.ID, deleted}

	visible := FilterApprovedAgents(assigned, agents)
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible agent, got %d", len(visible))
	}
	if visible[0].ID != approved.ID {
		t.Fatalf("expected approved agent %s, got %s", approved.ID.Hex(), visible[0].ID.Hex())
	}
}

func TestFilterApprovedAgentsExcludesNonAgents(t *testing.T) {
	now := time.Now()
	candidate := &User{ID: primitive.NewObjectID(), UserType: UserTypeCandidate}
	if _, err := candidate.Approve(now); err != nil {
		t.Fatalf("approve: %v", err)
	}
	agents := map[primitive.ObjectID]*User{candidate.ID: candidate}
	if got := FilterApprovedAgents([]primitive.ObjectID{candidate.ID}, agents); len(got) != 0 {
		t.Fatalf("a non-agent account must never appear in the agent list, got %d", len(got))
	}
}
