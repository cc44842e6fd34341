package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/controllers"
	"github.com/talentlink-app/talentlink_backend/middleware"
)

// RegisterAgentRoutes sets up the agent-facing profile routes. Profile
// editing and uploads work while the account is still pending review;
// the client list requires an approved account.
func RegisterAgentRoutes(e *echo.Echo, db *mongo.Client, agentController *controllers.AgentController) {
	agent := e.Group("/api/agent")
	agent.Use(middleware.JWTMiddleware())
	agent.Use(middleware.ActivityTracker(db))
	agent.Use(middleware.RequireUserType("agent"))

	agent.GET("/profile", agentController.GetProfile)
	agent.PUT("/profile", agentController.UpdateProfile)
	agent.POST("/verification-document", agentController.UploadVerificationDoc)
	agent.POST("/intro-video", agentController.UploadIntroVideo)
	agent.GET("/qrcode", agentController.GenerateShareQR)

	approved := agent.Group("")
	approved.Use(middleware.RequireApprovedAccount(db))
	approved.GET("/clients", agentController.ListClients)
}
