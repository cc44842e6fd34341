package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email through the configured SMTP relay.
// Failures are logged and returned but never block the calling operation.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}

// NotifyAccountDecision records an in-app notification and sends email + FCM
// push to the affected user after an admin approval action. Every channel is
// best-effort; the approval itself has already been persisted.
func NotifyAccountDecision(db *mongo.Client, user *models.User, decision, reason string) {
	var title, body string
	switch decision {
	case models.StatusApproved:
		title = "Your account has been approved"
		body = fmt.Sprintf("Dear %s,\n\nYour TalentLink account has been approved. You now have full access to your dashboard.\n\nBest regards,\nThe TalentLink Team", user.FullName)
	case models.StatusRejected:
		title = "Your account has been rejected"
		if reason != "" {
			body = fmt.Sprintf("Dear %s,\n\nYour TalentLink account has been rejected.\nReason: %s\n\nYou may update your profile and contact support to request another review.\n\nBest regards,\nThe TalentLink Team", user.FullName, reason)
		} else {
			body = fmt.Sprintf("Dear %s,\n\nYour TalentLink account has been rejected.\n\nYou may update your profile and contact support to request another review.\n\nBest regards,\nThe TalentLink Team", user.FullName)
		}
	case models.StatusPending:
		title = "Your account is back under review"
		body = fmt.Sprintf("Dear %s,\n\nYour TalentLink account has been moved back to review. We will notify you once a decision is made.\n\nBest regards,\nThe TalentLink Team", user.FullName)
	default:
		return
	}

	if err := SaveNotification(db, user.ID, title, body, "approval_update", map[string]interface{}{
		"status": decision,
		"reason": reason,
	}); err != nil {
		log.Printf("Failed to save approval notification for user %s: %v", user.ID.Hex(), err)
	}

	_ = SendEmail(user.Email, title, body)

	if err := SendFCMNotificationToUser(db, user.ID, title, title, map[string]interface{}{
		"type":   "approval_update",
		"status": decision,
	}); err != nil {
		log.Printf("FCM push skipped for user %s: %v", user.ID.Hex(), err)
	}
}

// NotifyAssignment records and pushes the "you have a new agent/client"
// notifications to both sides of a new assignment.
func NotifyAssignment(db *mongo.Client, candidate, agent *models.User) {
	candTitle := "New agent assigned"
	candMsg := fmt.Sprintf("%s has been assigned as your agent. You can now message them from your dashboard.", agent.FullName)
	if err := SaveNotification(db, candidate.ID, candTitle, candMsg, "assignment_update", map[string]interface{}{
		"agentId": agent.ID.Hex(),
	}); err != nil {
		log.Printf("Failed to save assignment notification for candidate %s: %v", candidate.ID.Hex(), err)
	}
	_ = SendEmail(candidate.Email, candTitle, fmt.Sprintf("Dear %s,\n\n%s\n\nBest regards,\nThe TalentLink Team", candidate.FullName, candMsg))

	agentTitle := "New client assigned"
	agentMsg := fmt.Sprintf("%s has been assigned to you as a client.", candidate.FullName)
	if err := SaveNotification(db, agent.ID, agentTitle, agentMsg, "assignment_update", map[string]interface{}{
		"candidateId": candidate.ID.Hex(),
	}); err != nil {
		log.Printf("Failed to save assignment notification for agent %s: %v", agent.ID.Hex(), err)
	}

	if err := SendFCMNotificationToUser(db, candidate.ID, candTitle, candMsg, map[string]interface{}{
		"type":    "assignment_update",
		"agentId": agent.ID.Hex(),
	}); err != nil {
		log.Printf("FCM push skipped for candidate %s: %v", candidate.ID.Hex(), err)
	}
}

// SendFCMNotificationToUser sends a Firebase Cloud Messaging notification to a user
func SendFCMNotificationToUser(db *mongo.Client, userID primitive.ObjectID, title, message string, data map[string]interface{}) error {
	collection := config.GetCollection(db, "users")
	var user models.User
	err := collection.FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.FCMToken == "" {
		return fmt.Errorf("user has no FCM token")
	}

	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	notificationData := map[string]string{
		"type":      "general",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	// Override/merge with provided data
	if data != nil {
		for key, value := range data {
			if str, ok := value.(string); ok {
				notificationData[key] = str
			} else {
				notificationData[key] = ""
			}
		}
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: notificationData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "talentlink_fcm_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound: "default",
					Badge: func() *int { v := 1; return &v }(),
				},
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}

	log.Printf("FCM notification sent to user %s: %s", userID.Hex(), response)
	return nil
}
