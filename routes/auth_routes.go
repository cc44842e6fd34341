package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/controllers"
	"github.com/talentlink-app/talentlink_backend/middleware"
	"github.com/talentlink-app/talentlink_backend/models"
	"github.com/talentlink-app/talentlink_backend/utils"
	"github.com/talentlink-app/talentlink_backend/websocket"
)

// RegisterAuthRoutes sets up signup, login and the authenticated account
// surface shared by candidates and agents.
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController, hub *websocket.Hub) {
	// Public routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/google", authController.GoogleSignIn)
	e.POST("/api/auth/validate-token", authController.ValidateToken)

	// Protected routes group
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	r.POST("/auth/logout", authController.Logout)
	r.GET("/auth/me", authController.GetProfile)
	r.PUT("/auth/fcm-token", authController.UpdateFCMToken)
	r.POST("/auth/profile-picture", authController.UploadProfilePicture)

	// WebSocket route
	r.GET("/ws", func(c echo.Context) error {
		user, err := utils.GetUserFromToken(c, db)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		return websocket.HandleWebSocket(c, hub, user.ID)
	})
}
