// models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment statuses
const (
	AssignmentActive  = "active"
	AssignmentRemoved = "removed"
)

// Assignment is the audit record for a candidate/agent link. The candidate's
// assignedAgentIds list is the source of truth for who can message whom; this
// record keeps the who/when history and is never deleted on unassign, only
// flipped to removed.
type Assignment struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PairKey     string             `json:"pairKey" bson:"pairKey"`
	CandidateID primitive.ObjectID `json:"candidateId" bson:"candidateId"`
	AgentID     primitive.ObjectID `json:"agentId" bson:"agentId"`
	Status      string             `json:"status" bson:"status"`
	AssignedBy  primitive.ObjectID `json:"assignedBy" bson:"assignedBy"`
	AssignedAt  time.Time          `json:"assignedAt" bson:"assignedAt"`
	RemovedBy   primitive.ObjectID `json:"removedBy,omitempty" bson:"removedBy,omitempty"`
	RemovedAt   *time.Time         `json:"removedAt,omitempty" bson:"removedAt,omitempty"`
}

// AssignmentPairKey builds the deterministic composite key for a
// candidate/agent pair, so assigning the same pair twice hits the same
// document instead of duplicating it.
func AssignmentPairKey(candidateID, agentID primitive.ObjectID) string {
	return candidateID.Hex() + "_" + agentID.Hex()
}

// AppendAgentID appends agentID to the list unless already present. Returns
// the (possibly unchanged) list and whether it grew.
func AppendAgentID(list []primitive.ObjectID, agentID primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for _, id := range list {
		if id == agentID {
			return list, false
		}
	}
	return append(list, agentID), true
}

// RemoveAgentID removes every occurrence of agentID from the list.
func RemoveAgentID(list []primitive.ObjectID, agentID primitive.ObjectID) []primitive.ObjectID {
	out := list[:0]
	for _, id := range list {
		if id != agentID {
			out = append(out, id)
		}
	}
	return out
}

// FilterApprovedAgents keeps only the agents from the candidate's raw
// assigned list that still resolve to an approved agent account. A deleted,
// rejected or re-pended agent must not show up even if a stale cascade left
// it in the list.
func FilterApprovedAgents(assigned []primitive.ObjectID, agents map[primitive.ObjectID]*User) []*User {
	out := make([]*User, 0, len(assigned))
	for _, id := range assigned {
		agent, ok := agents[id]
		if !ok || agent == nil {
			continue
		}
		if agent.UserType != UserTypeAgent || !agent.IsApproved() {
			continue
		}
		out = append(out, agent)
	}
	return out
}
