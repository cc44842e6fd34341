package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/talentlink-app/talentlink_backend/controllers"
	"github.com/talentlink-app/talentlink_backend/middleware"
)

// RegisterCategoryRoutes sets up the per-scope category pools under the
// back office. Reading is open to any authenticated user so clients can
// render tag pickers; editing the pools is admin only.
func RegisterCategoryRoutes(e *echo.Echo, categoryController *controllers.CategoryController) {
	categories := e.Group("/api/admin/categories")
	categories.Use(middleware.JWTMiddleware())

	categories.GET("/:scope", categoryController.GetCategories)

	admin := categories.Group("")
	admin.Use(middleware.RequireUserType("admin"))
	admin.POST("/:scope", categoryController.AddCategory)
	admin.DELETE("/:scope/:name", categoryController.RemoveCategory)
}
