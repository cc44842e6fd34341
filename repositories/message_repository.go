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
	"github.com/talentlink-app/talentlink_backend/utils"
)

// MessageRepository stores messages keyed by derived conversation id.
type MessageRepository struct {
	messages *mongo.Collection
	users    *mongo.Collection
}

func NewMessageRepository(db *mongo.Client) *MessageRepository {
	return &MessageRepository{
		messages: config.GetCollection(db, "messages"),
		users:    config.GetCollection(db, "users"),
	}
}

// Send writes a new message. The conversation id is derived from the sorted
// participant pair so both directions of the pair land in the same thread.
func (r *MessageRepository) Send(senderID primitive.ObjectID, senderName string, req models.SendMessageRequest) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		return nil, ErrNotFound
	}

	var recipient models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": recipientID}).Decode(&recipient); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeGeneral
	}
	if !models.ValidMessageType(msgType) {
		return nil, ErrInvalidMessageType
	}

	message := models.Message{
		ConversationID: utils.ConversationID(senderID, recipientID),
		SenderID:       senderID,
		SenderName:     senderName,
		RecipientID:    recipientID,
		RecipientName:  recipient.FullName,
		Subject:        req.Subject,
		Body:           req.Body,
		Status:         models.MessageUnread,
		Type:           msgType,
		IsReply:        req.IsReply,
		CreatedAt:      time.Now(),
	}

	result, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = result.InsertedID.(primitive.ObjectID)
	return &message, nil
}

// Conversation returns the full thread between two accounts in send order.
// Rows written by the old client have no conversationId; they are matched by
// the participant pair and backfilled in place so the next read hits the
// index directly.
func (r *MessageRepository) Conversation(a, b primitive.ObjectID) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	convID := utils.ConversationID(a, b)
	pairClause := bson.M{
		"conversationId": bson.M{"$exists": false},
		"$or": []bson.M{
			{"senderId": a, "recipientId": b},
			{"senderId": b, "recipientId": a},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{
		"$or": []bson.M{
			{"conversationId": convID},
			pairClause,
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var thread []models.Message
	if err := cursor.All(ctx, &thread); err != nil {
		return nil, err
	}

	// Lazy backfill, best effort. A failure here only means the next read
	// takes the slow path again.
	needsBackfill := false
	for i := range thread {
		if thread[i].ConversationID == "" {
			thread[i].ConversationID = convID
			needsBackfill = true
		}
	}
	if needsBackfill {
		go func() {
			bfCtx, bfCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer bfCancel()
			if _, err := r.messages.UpdateMany(bfCtx, pairClause,
				bson.M{"$set": bson.M{"conversationId": convID}},
			); err != nil {
				log.Printf("Conversation id backfill failed for %s: %v", convID, err)
			}
		}()
	}
	return thread, nil
}

// Inbox returns messages addressed to the user, newest first.
func (r *MessageRepository) Inbox(userID primitive.ObjectID) ([]models.Message, error) {
	return r.listByField("recipientId", userID)
}

// Sent returns messages the user authored, newest first.
func (r *MessageRepository) Sent(userID primitive.ObjectID) ([]models.Message, error) {
	return r.listByField("senderId", userID)
}

func (r *MessageRepository) listByField(field string, userID primitive.ObjectID) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.messages.Find(ctx, bson.M{field: userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// UpdateStatus flips a message's status and returns the updated message.
// Only the recipient may do this; senders never change the state of what
// they sent.
func (r *MessageRepository) UpdateStatus(messageID, userID primitive.ObjectID, status string) (*models.Message, error) {
	if !models.ValidMessageStatus(status) {
		return nil, ErrInvalidMessageStatus
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Message
	err := r.messages.FindOneAndUpdate(ctx,
		bson.M{"_id": messageID, "recipientId": userID},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// SetSaved toggles the recipient's saved flag on a message.
func (r *MessageRepository) SetSaved(messageID, userID primitive.ObjectID, saved bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.messages.UpdateOne(ctx,
		bson.M{"_id": messageID, "recipientId": userID},
		bson.M{"$set": bson.M{"saved": saved}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnread returns the user's unread message count for the inbox badge.
func (r *MessageRepository) CountUnread(userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.messages.CountDocuments(ctx, bson.M{
		"recipientId": userID,
		"status":      models.MessageUnread,
	})
}
