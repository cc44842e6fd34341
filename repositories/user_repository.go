package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
)

// UserRepository covers the self-service profile writes, the fields an
// account edits about itself rather than what admins do to it.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
	}
}

func (r *UserRepository) UpdateProfilePicture(userID primitive.ObjectID, profileURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": userID}
	update := bson.M{
		"$set": bson.M{
			"profilePic": profileURL,
			"updatedAt":  time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *UserRepository) UpdateFCMToken(userID primitive.ObjectID, token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"fcmToken": token, "updatedAt": time.Now()}},
	)
	return err
}

// UpdateAgentProfile applies the agent's own profile edits. Nil fields in
// the request are left untouched.
func (r *UserRepository) UpdateAgentProfile(userID primitive.ObjectID, req models.UpdateAgentProfileRequest) error {
	set := bson.M{"updatedAt": time.Now()}
	if req.Description != nil {
		set["agentInfo.description"] = *req.Description
	}
	if req.Platforms != nil {
		set["agentInfo.platforms"] = req.Platforms
	}
	if req.Pricing != nil {
		set["agentInfo.pricing"] = req.Pricing
	}
	if req.PercentageCharge != nil {
		set["agentInfo.percentageCharge"] = *req.PercentageCharge
	}
	if req.OneTimeFee != nil {
		set["agentInfo.oneTimeFee"] = *req.OneTimeFee
	}
	if req.WorkingHours != nil {
		set["agentInfo.workingHours"] = req.WorkingHours
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "userType": models.UserTypeAgent},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateIntroVideo records the uploaded intro video and its generated
// thumbnail on the agent profile.
func (r *UserRepository) UpdateIntroVideo(userID primitive.ObjectID, videoURL, thumbnailURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "userType": models.UserTypeAgent},
		bson.M{"$set": bson.M{
			"agentInfo.introVideo":     videoURL,
			"agentInfo.introThumbnail": thumbnailURL,
			"updatedAt":                time.Now(),
		}},
	)
	return err
}

// AppendVerificationDoc adds an uploaded verification document URL to the
// agent's list.
func (r *UserRepository) AppendVerificationDoc(userID primitive.ObjectID, docURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "userType": models.UserTypeAgent},
		bson.M{"$set": bson.M{"updatedAt": time.Now()},
			"$addToSet": bson.M{"agentInfo.verificationDocs": docURL}},
	)
	return err
}

// UpdateShareQR stores the generated profile-share QR code URL.
func (r *UserRepository) UpdateShareQR(userID primitive.ObjectID, qrURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "userType": models.UserTypeAgent},
		bson.M{"$set": bson.M{"agentInfo.shareQr": qrURL, "updatedAt": time.Now()}},
	)
	return err
}
