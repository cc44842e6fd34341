package controllers

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/models"
	"github.com/talentlink-app/talentlink_backend/repositories"
	"github.com/talentlink-app/talentlink_backend/utils"
	ws "github.com/talentlink-app/talentlink_backend/websocket"
)

// MessageController handles in-platform messaging between candidates and
// their assigned agents.
type MessageController struct {
	DB          *mongo.Client
	messages    *repositories.MessageRepository
	accounts    *repositories.AccountRepository
	assignments *repositories.AssignmentRepository
	hub         *ws.Hub
	logger      *log.Logger
}

func NewMessageController(db *mongo.Client, hub *ws.Hub) *MessageController {
	return &MessageController{
		DB:          db,
		messages:    repositories.NewMessageRepository(db),
		accounts:    repositories.NewAccountRepository(db),
		assignments: repositories.NewAssignmentRepository(db),
		hub:         hub,
		logger:      log.New(os.Stdout, "[MSG] ", log.LstdFlags),
	}
}

// Send delivers a message. Candidates may only write to their assigned
// agents and vice versa; admins may write to anyone.
func (mc *MessageController) Send(c echo.Context) error {
	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "recipientId and body are required",
		})
	}
	req.Subject = utils.SanitizeInput(req.Subject)
	req.Body = utils.SanitizeInput(req.Body)

	sender, err := utils.GetUserFromToken(c, mc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid recipient ID",
		})
	}

	allowed, err := mc.canMessage(sender, recipientID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Recipient not found",
			})
		}
		mc.logger.Printf("Message authorization check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send message",
		})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only message accounts assigned to you",
		})
	}

	message, err := mc.messages.Send(sender.ID, sender.FullName, req)
	if err != nil {
		switch err {
		case repositories.ErrNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Recipient not found",
			})
		case repositories.ErrInvalidMessageType:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid message type",
			})
		}
		mc.logger.Printf("Message send failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send message",
		})
	}

	go mc.notifyRecipient(message)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Message sent successfully",
		Data:    message,
	})
}

// Conversation returns the thread between the caller and another account.
func (mc *MessageController) Conversation(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	otherID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	thread, err := mc.messages.Conversation(userID, otherID)
	if err != nil {
		mc.logger.Printf("Conversation fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve conversation",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Conversation retrieved successfully",
		Data:    thread,
	})
}

// Inbox returns messages addressed to the caller, newest first.
func (mc *MessageController) Inbox(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	messages, err := mc.messages.Inbox(userID)
	if err != nil {
		mc.logger.Printf("Inbox fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve inbox",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Inbox retrieved successfully",
		Data:    messages,
	})
}

// Sent returns messages the caller authored, newest first.
func (mc *MessageController) Sent(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	messages, err := mc.messages.Sent(userID)
	if err != nil {
		mc.logger.Printf("Sent messages fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve sent messages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sent messages retrieved successfully",
		Data:    messages,
	})
}

// UpdateStatus flips a received message to read/accepted/rejected.
func (mc *MessageController) UpdateStatus(c echo.Context) error {
	messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid message ID",
		})
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "status is required",
		})
	}

	user, err := utils.GetUserFromToken(c, mc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	updated, err := mc.messages.UpdateStatus(messageID, user.ID, req.Status)
	if err != nil {
		switch err {
		case repositories.ErrInvalidMessageStatus:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid message status",
			})
		case repositories.ErrNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Message not found in your inbox",
			})
		}
		mc.logger.Printf("Message status update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update message status",
		})
	}

	// Deciding on a service request drops a notice into the thread so the
	// requester sees the outcome inline.
	if updated.Type == models.MessageTypeServiceRequest &&
		(req.Status == models.MessageAccepted || req.Status == models.MessageRejected) {
		go mc.sendDecisionNotice(user, updated, req.Status)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message status updated",
		Data:    updated,
	})
}

// sendDecisionNotice writes the accepted/rejected outcome of a service
// request back to its sender as a reply message. Best effort.
func (mc *MessageController) sendDecisionNotice(decider *models.User, request *models.Message, decision string) {
	body := decider.FullName + " has " + decision + " your service request"
	if request.Subject != "" {
		body += ": " + request.Subject
	}

	notice, err := mc.messages.Send(decider.ID, decider.FullName, models.SendMessageRequest{
		RecipientID: request.SenderID.Hex(),
		Subject:     "Service request " + decision,
		Body:        body,
		Type:        models.MessageTypeGeneral,
		IsReply:     true,
	})
	if err != nil {
		mc.logger.Printf("Decision notice failed for message %s: %v", request.ID.Hex(), err)
		return
	}
	mc.notifyRecipient(notice)
}

// SetSaved toggles the saved flag on a received message.
func (mc *MessageController) SetSaved(c echo.Context) error {
	messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid message ID",
		})
	}

	saved := true
	if savedParam := c.QueryParam("saved"); savedParam != "" {
		saved, err = strconv.ParseBool(savedParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "saved must be true or false",
			})
		}
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	if err := mc.messages.SetSaved(messageID, userID, saved); err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Message not found in your inbox",
			})
		}
		mc.logger.Printf("Message saved toggle failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update message",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message updated",
	})
}

// UnreadCount returns the caller's unread message count.
func (mc *MessageController) UnreadCount(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	count, err := mc.messages.CountUnread(userID)
	if err != nil {
		mc.logger.Printf("Unread count failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count unread messages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Unread count retrieved successfully",
		Data:    map[string]int64{"unread": count},
	})
}

// canMessage applies the pairing rule: admins write to anyone, candidates
// and agents only across an active assignment and only while the other side
// is still approved.
func (mc *MessageController) canMessage(sender *models.User, recipientID primitive.ObjectID) (bool, error) {
	if sender.UserType == models.UserTypeAdmin {
		return true, nil
	}

	recipient, err := mc.accounts.FindByID(recipientID)
	if err != nil {
		return false, err
	}
	if recipient.UserType == models.UserTypeAdmin {
		// Anyone may write to the back office.
		return true, nil
	}

	if !messagingPairAllowed(sender, recipient) {
		return false, nil
	}
	if sender.UserType == models.UserTypeCandidate {
		return mc.assignments.IsAssigned(sender.ID, recipient.ID)
	}
	return mc.assignments.IsAssigned(recipient.ID, sender.ID)
}

// messagingPairAllowed decides whether a candidate/agent pair may exchange
// messages before the assignment ledger is consulted. Rejecting an account
// does not touch the ledger or the candidate's mirror list, so the
// recipient's current approval has to be checked here for the rejection to
// cut off messaging immediately.
func messagingPairAllowed(sender, recipient *models.User) bool {
	candidateToAgent := sender.UserType == models.UserTypeCandidate && recipient.UserType == models.UserTypeAgent
	agentToCandidate := sender.UserType == models.UserTypeAgent && recipient.UserType == models.UserTypeCandidate
	if !candidateToAgent && !agentToCandidate {
		return false
	}
	return recipient.IsApproved()
}

// notifyRecipient fans out the new-message notification over websocket, the
// in-app feed and FCM. All best effort.
func (mc *MessageController) notifyRecipient(message *models.Message) {
	if mc.hub != nil {
		if err := mc.hub.NotifyNewMessage(message.RecipientID, message); err != nil {
			mc.logger.Printf("Websocket push skipped for %s: %v", message.RecipientID.Hex(), err)
		}
	}

	title := "New message from " + message.SenderName
	if err := utils.SaveNotification(mc.DB, message.RecipientID, title, message.Body, ws.NotificationTypeNewMessage, map[string]interface{}{
		"messageId":      message.ID.Hex(),
		"conversationId": message.ConversationID,
	}); err != nil {
		mc.logger.Printf("Failed to save message notification: %v", err)
	}

	if err := utils.SendFCMNotificationToUser(mc.DB, message.RecipientID, title, message.Body, map[string]interface{}{
		"type":           ws.NotificationTypeNewMessage,
		"conversationId": message.ConversationID,
	}); err != nil {
		mc.logger.Printf("FCM push skipped for %s: %v", message.RecipientID.Hex(), err)
	}
}
