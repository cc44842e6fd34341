package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
)

// AssignmentRepository manages the candidate/agent assignment ledger plus
// the mirror list on the candidate document.
type AssignmentRepository struct {
	users       *mongo.Collection
	assignments *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Client) *AssignmentRepository {
	return &AssignmentRepository{
		users:       config.GetCollection(db, "users"),
		assignments: config.GetCollection(db, "assignments"),
	}
}

// Assign links an approved agent to a candidate. The pair key keeps a
// repeated assign from duplicating the ledger entry: a removed entry for the
// same pair is revived instead of inserting a second document.
func (r *AssignmentRepository) Assign(candidateID, agentID, adminID primitive.ObjectID) (*models.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, agent, err := r.loadPair(ctx, candidateID, agentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsApproved() {
		return nil, ErrAgentNotApproved
	}

	pairKey := models.AssignmentPairKey(candidateID, agentID)
	now := time.Now()

	var existing models.Assignment
	err = r.assignments.FindOne(ctx, bson.M{"pairKey": pairKey}).Decode(&existing)
	switch {
	case err == nil && existing.Status == models.AssignmentActive:
		return nil, ErrAlreadyAssigned
	case err == nil:
		// Revive the removed ledger entry for this pair.
		update := bson.M{
			"$set": bson.M{
				"status":     models.AssignmentActive,
				"assignedBy": adminID,
				"assignedAt": now,
			},
			"$unset": bson.M{"removedBy": "", "removedAt": ""},
		}
		if _, err := r.assignments.UpdateOne(ctx, bson.M{"_id": existing.ID}, update); err != nil {
			return nil, err
		}
		existing.Status = models.AssignmentActive
		existing.AssignedBy = adminID
		existing.AssignedAt = now
		existing.RemovedBy = primitive.NilObjectID
		existing.RemovedAt = nil
	case err == mongo.ErrNoDocuments:
		existing = models.Assignment{
			PairKey:     pairKey,
			CandidateID: candidateID,
			AgentID:     agentID,
			Status:      models.AssignmentActive,
			AssignedBy:  adminID,
			AssignedAt:  now,
		}
		result, err := r.assignments.InsertOne(ctx, existing)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrAlreadyAssigned
			}
			return nil, err
		}
		existing.ID = result.InsertedID.(primitive.ObjectID)
	default:
		return nil, err
	}

	// Mirror write: the candidate's list drives message authorization.
	// $addToSet keeps it idempotent against the revive path above.
	if _, err := r.users.UpdateOne(ctx,
		bson.M{"_id": candidateID},
		bson.M{"$addToSet": bson.M{"assignedAgentIds": agentID}, "$set": bson.M{"updatedAt": now}},
	); err != nil {
		return nil, err
	}
	return &existing, nil
}

// Unassign flips the active ledger entry for the pair to removed and pulls
// the agent from the candidate's mirror list.
func (r *AssignmentRepository) Unassign(candidateID, agentID, adminID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pairKey := models.AssignmentPairKey(candidateID, agentID)
	now := time.Now()

	result, err := r.assignments.UpdateOne(ctx,
		bson.M{"pairKey": pairKey, "status": models.AssignmentActive},
		bson.M{"$set": bson.M{
			"status":    models.AssignmentRemoved,
			"removedBy": adminID,
			"removedAt": now,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotAssigned
	}

	_, err = r.users.UpdateOne(ctx,
		bson.M{"_id": candidateID},
		bson.M{"$pull": bson.M{"assignedAgentIds": agentID}, "$set": bson.M{"updatedAt": now}},
	)
	return err
}

// ListForCandidate returns the ledger entries for one candidate, newest
// first, including removed ones so the admin sees the full history.
func (r *AssignmentRepository) ListForCandidate(candidateID primitive.ObjectID) ([]models.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})
	cursor, err := r.assignments.Find(ctx, bson.M{"candidateId": candidateID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Assignment
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListActive returns every active assignment, newest first.
func (r *AssignmentRepository) ListActive() ([]models.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})
	cursor, err := r.assignments.Find(ctx, bson.M{"status": models.AssignmentActive}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Assignment
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns the assignment audit trail filtered by either side of the
// pair. Filtered queries include removed records so the full history of a
// candidate or agent is visible.
func (r *AssignmentRepository) List(candidateID, agentID *primitive.ObjectID) ([]models.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	filter := bson.M{}
	if candidateID != nil {
		filter["candidateId"] = *candidateID
	}
	if agentID != nil {
		filter["agentId"] = *agentID
	}

	opts := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})
	cursor, err := r.assignments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Assignment
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AgentsForCandidate resolves the candidate's visible agent list. The raw
// mirror list is re-validated against the live agent documents, so agents
// that were deleted, rejected or sent back to pending since assignment drop
// out even if a stale cascade left them in the list.
func (r *AssignmentRepository) AgentsForCandidate(candidateID primitive.ObjectID) ([]*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var candidate models.User
	err := r.users.FindOne(ctx, bson.M{"_id": candidateID}).Decode(&candidate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if candidate.UserType != models.UserTypeCandidate {
		return nil, ErrWrongUserType
	}
	if len(candidate.AssignedAgentIDs) == 0 {
		return []*models.User{}, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": candidate.AssignedAgentIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	agents := make(map[primitive.ObjectID]*models.User)
	for cursor.Next(ctx) {
		var agent models.User
		if err := cursor.Decode(&agent); err != nil {
			return nil, err
		}
		agent.Password = ""
		agents[agent.ID] = &agent
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return models.FilterApprovedAgents(candidate.AssignedAgentIDs, agents), nil
}

// CandidatesForAgent returns the candidates with an active assignment to the
// agent, the agent-side client list.
func (r *AssignmentRepository) CandidatesForAgent(agentID primitive.ObjectID) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cursor, err := r.assignments.Find(ctx, bson.M{
		"agentId": agentID,
		"status":  models.AssignmentActive,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Assignment
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.User{}, nil
	}

	candidateIDs := make([]primitive.ObjectID, 0, len(entries))
	for _, entry := range entries {
		candidateIDs = append(candidateIDs, entry.CandidateID)
	}

	userCursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": candidateIDs}})
	if err != nil {
		return nil, err
	}
	defer userCursor.Close(ctx)

	var candidates []models.User
	if err := userCursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].Password = ""
		candidates[i].NormalizeApprovalStatus()
	}
	return candidates, nil
}

// IsAssigned reports whether the pair is truly assigned: an active ledger
// record AND the agent present on the candidate's mirror list. Absence in
// either means not assigned, so a half-completed assign or unassign never
// grants messaging access. Used by the messaging layer to authorize
// candidate-to-agent sends.
func (r *AssignmentRepository) IsAssigned(candidateID, agentID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := r.assignments.CountDocuments(ctx, bson.M{
		"pairKey": models.AssignmentPairKey(candidateID, agentID),
		"status":  models.AssignmentActive,
	})
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}

	listed, err := r.users.CountDocuments(ctx, bson.M{
		"_id":              candidateID,
		"assignedAgentIds": agentID,
	})
	if err != nil {
		return false, err
	}
	return listed > 0, nil
}

// loadPair fetches both sides of an assignment and checks the roles line up.
func (r *AssignmentRepository) loadPair(ctx context.Context, candidateID, agentID primitive.ObjectID) (*models.User, *models.User, error) {
	var candidate models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": candidateID}).Decode(&candidate); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	var agent models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": agentID}).Decode(&agent); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if candidate.UserType != models.UserTypeCandidate || agent.UserType != models.UserTypeAgent {
		return nil, nil, ErrWrongUserType
	}
	return &candidate, &agent, nil
}
