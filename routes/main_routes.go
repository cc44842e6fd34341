package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/controllers"
	"github.com/talentlink-app/talentlink_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	authController := controllers.NewAuthController(db)
	adminController := controllers.NewAdminController(db, hub)
	agentController := controllers.NewAgentController(db)
	candidateController := controllers.NewCandidateController(db)
	messageController := controllers.NewMessageController(db, hub)
	categoryController := controllers.NewCategoryController(db)
	notificationController := controllers.NewNotificationController(db)

	RegisterAuthRoutes(e, db, authController, hub)
	RegisterAdminRoutes(e, adminController)
	RegisterAgentRoutes(e, db, agentController)
	RegisterCandidateRoutes(e, db, candidateController)
	RegisterMessageRoutes(e, db, messageController)
	RegisterCategoryRoutes(e, categoryController)
	RegisterNotificationRoutes(e, notificationController)
	RegisterFileRoutes(e)
}
