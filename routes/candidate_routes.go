package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/controllers"
	"github.com/talentlink-app/talentlink_backend/middleware"
)

// RegisterCandidateRoutes sets up the candidate-facing routes. The
// dashboard stays reachable while pending so the candidate can see their
// review status; the agent list needs an approved account.
func RegisterCandidateRoutes(e *echo.Echo, db *mongo.Client, candidateController *controllers.CandidateController) {
	candidate := e.Group("/api/candidate")
	candidate.Use(middleware.JWTMiddleware())
	candidate.Use(middleware.ActivityTracker(db))
	candidate.Use(middleware.RequireUserType("candidate"))

	candidate.GET("/dashboard", candidateController.Dashboard)

	approved := candidate.Group("")
	approved.Use(middleware.RequireApprovedAccount(db))
	approved.GET("/agents", candidateController.ListAgents)
}
