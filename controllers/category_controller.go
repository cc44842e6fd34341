package controllers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
	"github.com/talentlink-app/talentlink_backend/repositories"
)

// CategoryController manages the per-scope category pools used for tagging
// and filtering accounts. Scope is "agent" or "candidate".
type CategoryController struct {
	DB         *mongo.Client
	categories *repositories.CategoryRepository
	logger     *log.Logger
}

func NewCategoryController(db *mongo.Client) *CategoryController {
	return &CategoryController{
		DB:         db,
		categories: repositories.NewCategoryRepository(db, config.GetRedisClient()),
		logger:     log.New(os.Stdout, "[CAT] ", log.LstdFlags),
	}
}

// GetCategories returns the pool for a scope. Unknown scopes are rejected;
// a scope nobody has written yet returns an empty list.
func (cc *CategoryController) GetCategories(c echo.Context) error {
	scope := c.Param("scope")
	if !models.ValidCategoryScope(scope) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Scope must be agent or candidate",
		})
	}

	set, err := cc.categories.Get(scope)
	if err != nil {
		cc.logger.Printf("Category fetch failed for scope %s: %v", scope, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    set,
	})
}

// AddCategory appends a new name to the scope's pool. Names are compared
// case-sensitively after trimming, so "VIP" and "vip" can coexist.
func (cc *CategoryController) AddCategory(c echo.Context) error {
	scope := c.Param("scope")
	if !models.ValidCategoryScope(scope) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Scope must be agent or candidate",
		})
	}

	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required",
		})
	}

	set, err := cc.categories.Add(scope, req.Name)
	if err != nil {
		if err == models.ErrDuplicateCategory {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Category with this name already exists",
			})
		}
		cc.logger.Printf("Category add failed for scope %s: %v", scope, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to add category",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Category added successfully",
		Data:    set,
	})
}

// RemoveCategory deletes a name from the scope's pool. Accounts keep any
// tags pointing at the removed name; they just stop matching filters.
func (cc *CategoryController) RemoveCategory(c echo.Context) error {
	scope := c.Param("scope")
	if !models.ValidCategoryScope(scope) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Scope must be agent or candidate",
		})
	}

	name := c.Param("name")
	if strings.TrimSpace(name) == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required",
		})
	}

	if err := cc.categories.Remove(scope, name); err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		}
		cc.logger.Printf("Category remove failed for scope %s: %v", scope, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to remove category",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category removed successfully",
	})
}
