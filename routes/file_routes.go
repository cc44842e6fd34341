package routes

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/talentlink-app/talentlink_backend/models"
)

// RegisterFileRoutes sets up all file serving routes
func RegisterFileRoutes(e *echo.Echo) {
	e.GET("/uploads/*", ServeFile)
	e.GET("/uploads/:filename", ServeImage)
}

// ServeImage handles serving uploaded images
func ServeImage(c echo.Context) error {
	path := c.Param("*")
	if path == "" {
		path = c.Param("filename")
	}

	// Try various potential paths
	potentialPaths := []string{
		filepath.Join("uploads", path),
		filepath.Join("uploads", "profiles", path),
		filepath.Join("uploads", "documents", path),
		filepath.Join("uploads", "videos", path),
		filepath.Join("uploads", "thumbnails", path),
		filepath.Join("uploads", "qrcodes", path),
	}

	for _, filePath := range potentialPaths {
		if _, err := os.Stat(filePath); !os.IsNotExist(err) {
			return c.File(filePath)
		}
	}

	return c.JSON(http.StatusNotFound, models.Response{
		Status:  http.StatusNotFound,
		Message: "Image not found",
	})
}

// ServeFile handles serving uploaded files with proper security checks
func ServeFile(c echo.Context) error {
	path := c.Param("*")
	if path == "" {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "File not found - no path provided",
		})
	}

	// Clean the path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, "../") {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied - invalid path",
		})
	}

	fullPath := filepath.Join("uploads", cleanPath)

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "File not found",
			})
		}
		log.Printf("Error accessing file %s: %v", fullPath, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error accessing file",
		})
	}

	// Don't allow directory listing
	if info.IsDir() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied - directory listing not allowed",
		})
	}

	// Cache for a year, uploaded files never change in place
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000")
	c.Response().Header().Set("Expires", time.Now().AddDate(1, 0, 0).Format(time.RFC1123))

	return c.File(fullPath)
}
