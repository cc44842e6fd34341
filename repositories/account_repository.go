package repositories

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
)

// AccountRepository owns the approval workflow and the admin account
// listings over the users collection.
type AccountRepository struct {
	users       *mongo.Collection
	assignments *mongo.Collection
	messages    *mongo.Collection
}

func NewAccountRepository(db *mongo.Client) *AccountRepository {
	return &AccountRepository{
		users:       config.GetCollection(db, "users"),
		assignments: config.GetCollection(db, "assignments"),
		messages:    config.GetCollection(db, "messages"),
	}
}

// FindByID loads a user and resolves its canonical approval status.
func (r *AccountRepository) FindByID(id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.NormalizeApprovalStatus()
	return &user, nil
}

// FindByEmail loads a user by email and resolves its approval status.
func (r *AccountRepository) FindByEmail(email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.NormalizeApprovalStatus()
	return &user, nil
}

// List returns accounts matching the admin filter. Role and category
// filters are pushed into the query; the status filter is applied after
// normalization so documents still carrying the legacy approval fields are
// matched correctly.
func (r *AccountRepository) List(filter models.AccountFilter) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.UserType != "" {
		query["userType"] = filter.UserType
	} else {
		query["userType"] = bson.M{"$in": []string{models.UserTypeCandidate, models.UserTypeAgent}}
	}
	if len(filter.Categories) > 0 {
		// Any-of semantics: one shared category is enough to match.
		query["categories"] = bson.M{"$in": filter.Categories}
	}
	if filter.SearchTerm != "" {
		regex := primitive.Regex{Pattern: filter.SearchTerm, Options: "i"}
		query["$or"] = []bson.M{
			{"fullName": regex},
			{"email": regex},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.users.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var all []models.User
	if err := cursor.All(ctx, &all); err != nil {
		return nil, err
	}

	results := make([]models.User, 0, len(all))
	for i := range all {
		status := all[i].NormalizeApprovalStatus()
		if filter.Status != "" && status != filter.Status {
			continue
		}
		all[i].Password = ""
		results = append(results, all[i])
		if filter.Limit > 0 && int64(len(results)) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// Approve transitions the account to approved. Returns the updated user and
// whether anything changed; approving an approved account is a no-op.
func (r *AccountRepository) Approve(id primitive.ObjectID) (*models.User, bool, error) {
	user, err := r.FindByID(id)
	if err != nil {
		return nil, false, err
	}
	changed, err := user.Approve(time.Now())
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return user, false, nil
	}
	if err := r.persistApprovalState(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Reject transitions the account to rejected, recording the acting admin and
// the optional reason. Re-rejecting replaces the recorded metadata.
func (r *AccountRepository) Reject(id primitive.ObjectID, reason string, adminID primitive.ObjectID) (*models.User, bool, error) {
	user, err := r.FindByID(id)
	if err != nil {
		return nil, false, err
	}
	changed, err := user.Reject(reason, adminID, time.Now())
	if err != nil {
		return nil, false, err
	}
	if err := r.persistApprovalState(user); err != nil {
		return nil, false, err
	}
	return user, changed, nil
}

// Unreject moves a rejected account back to pending review.
func (r *AccountRepository) Unreject(id primitive.ObjectID) (*models.User, bool, error) {
	user, err := r.FindByID(id)
	if err != nil {
		return nil, false, err
	}
	changed, err := user.Unreject(time.Now())
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return user, false, nil
	}
	if err := r.persistApprovalState(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// persistApprovalState writes the canonical approval fields and drops the
// legacy representation in the same update, so a document only flips to the
// new shape once and stays there.
func (r *AccountRepository) persistApprovalState(user *models.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	set := bson.M{
		"approvalStatus": user.ApprovalStatus,
		"updatedAt":      user.UpdatedAt,
	}
	unset := bson.M{
		"isCandidateApproved":     "",
		"isRejected":              "",
		"agentVerificationStatus": "",
	}
	if user.ApprovedAt != nil {
		set["approvedAt"] = user.ApprovedAt
	} else {
		unset["approvedAt"] = ""
	}
	if user.Rejection != nil {
		set["rejection"] = user.Rejection
	} else {
		unset["rejection"] = ""
	}

	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": set, "$unset": unset},
	)
	return err
}

// Delete removes the account and cascades: active assignments touching the
// user are marked removed and, for agents, the agent id is pulled from every
// candidate's mirror list. Messages are kept so the other side of a
// conversation retains its history.
func (r *AccountRepository) Delete(id primitive.ObjectID, adminID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := r.FindByID(id)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = r.assignments.UpdateMany(ctx,
		bson.M{
			"status": models.AssignmentActive,
			"$or":    []bson.M{{"candidateId": id}, {"agentId": id}},
		},
		bson.M{"$set": bson.M{
			"status":    models.AssignmentRemoved,
			"removedBy": adminID,
			"removedAt": now,
		}},
	)
	if err != nil {
		return err
	}

	if user.UserType == models.UserTypeAgent {
		if _, err := r.users.UpdateMany(ctx,
			bson.M{"assignedAgentIds": id},
			bson.M{"$pull": bson.M{"assignedAgentIds": id}},
		); err != nil {
			log.Printf("Failed to pull deleted agent %s from candidate mirrors: %v", id.Hex(), err)
		}
	}

	result, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DashboardStats aggregates the counters shown on the admin dashboard.
// Legacy documents without a canonical approvalStatus are counted by loading
// and normalizing, which keeps the numbers honest during the migration
// window at the cost of a full scan.
func (r *AccountRepository) DashboardStats() (*models.AdminDashboardStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := r.users.Find(ctx, bson.M{
		"userType": bson.M{"$in": []string{models.UserTypeCandidate, models.UserTypeAgent}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	stats := &models.AdminDashboardStats{}
	for i := range users {
		status := users[i].NormalizeApprovalStatus()
		switch users[i].UserType {
		case models.UserTypeCandidate:
			stats.TotalCandidates++
			switch status {
			case models.StatusPending:
				stats.PendingCandidates++
			case models.StatusApproved:
				stats.ApprovedCandidates++
			case models.StatusRejected:
				stats.RejectedCandidates++
			}
		case models.UserTypeAgent:
			stats.TotalAgents++
			switch status {
			case models.StatusPending:
				stats.PendingAgents++
			case models.StatusApproved:
				stats.ApprovedAgents++
			case models.StatusRejected:
				stats.RejectedAgents++
			}
		}
	}

	stats.ActiveAssignments, err = r.assignments.CountDocuments(ctx, bson.M{"status": models.AssignmentActive})
	if err != nil {
		return nil, err
	}
	stats.TotalMessages, err = r.messages.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// UpdateAgentStats applies a partial edit to the admin-curated agent
// performance numbers. Only the fields present in the request change.
func (r *AccountRepository) UpdateAgentStats(id primitive.ObjectID, req models.UpdateAgentStatsRequest) (*models.User, error) {
	user, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user.UserType != models.UserTypeAgent {
		return nil, ErrWrongUserType
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.SuccessRate != nil {
		set["agentInfo.stats.successRate"] = *req.SuccessRate
	}
	if req.TotalClients != nil {
		set["agentInfo.stats.totalClients"] = *req.TotalClients
	}
	if req.Rating != nil {
		set["agentInfo.stats.rating"] = *req.Rating
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, err
	}
	return r.FindByID(id)
}
