package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/controllers"
	"github.com/talentlink-app/talentlink_backend/middleware"
)

// RegisterMessageRoutes sets up messaging for all user types. Candidates
// and agents must be approved before they can use the mailbox; admins
// pass the approval check implicitly.
func RegisterMessageRoutes(e *echo.Echo, db *mongo.Client, messageController *controllers.MessageController) {
	messages := e.Group("/api/messages")
	messages.Use(middleware.JWTMiddleware())
	messages.Use(middleware.ActivityTracker(db))
	messages.Use(middleware.RequireApprovedAccount(db))

	messages.POST("", messageController.Send)
	messages.GET("/inbox", messageController.Inbox)
	messages.GET("/sent", messageController.Sent)
	messages.GET("/unread-count", messageController.UnreadCount)
	messages.GET("/conversation/:userId", messageController.Conversation)
	messages.PUT("/:id/status", messageController.UpdateStatus)
	messages.PUT("/:id/saved", messageController.SetSaved)
}
