package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/talentlink-app/talentlink_backend/controllers"
	"github.com/talentlink-app/talentlink_backend/middleware"
)

// RegisterAdminRoutes sets up the back-office surface. Everything except
// login and password recovery requires an admin token.
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController) {
	admin := e.Group("/api/admin")

	// Public routes
	admin.POST("/login", adminController.Login)
	admin.POST("/forgot-password", adminController.ForgotPassword)
	admin.POST("/reset-password", adminController.ResetPassword)

	// Protected routes
	protected := admin.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.Use(middleware.RequireUserType("admin"))

	protected.GET("/dashboard", adminController.Dashboard)

	// Account review
	protected.GET("/accounts", adminController.ListAccounts)
	protected.GET("/accounts/:id", adminController.GetAccount)
	protected.POST("/accounts/:id/approve", adminController.ApproveAccount)
	protected.POST("/accounts/:id/reject", adminController.RejectAccount)
	protected.POST("/accounts/:id/unreject", adminController.UnrejectAccount)
	protected.DELETE("/accounts/:id", adminController.DeleteAccount)
	protected.PUT("/accounts/:id/categories", adminController.SetAccountCategories)
	protected.PUT("/accounts/:id/stats", adminController.UpdateAgentStats)

	// Assignment ledger
	protected.POST("/assignments", adminController.AssignAgent)
	protected.DELETE("/assignments", adminController.UnassignAgent)
	protected.GET("/assignments", adminController.ListAssignments)

	// Saved list filters
	protected.GET("/filters", adminController.ListSavedFilters)
	protected.POST("/filters", adminController.SaveFilter)
	protected.DELETE("/filters/:id", adminController.DeleteSavedFilter)
}
