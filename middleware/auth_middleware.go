// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequireUserType checks if the authenticated user has one of the allowed user types
func RequireUserType(allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Get user type from context or token
			userType := ExtractUserType(c)
			c.Logger().Infof("RequireUserType middleware - Path: %s, UserType: %s, AllowedTypes: %v",
				c.Request().URL.Path, userType, allowedTypes)

			// If no user type found, deny access
			if userType == "" {
				c.Logger().Error("Authentication failed: user type not found")
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: user type not found",
				})
			}

			// Check if user type is allowed
			for _, allowedType := range allowedTypes {
				if userType == allowedType {
					c.Logger().Infof("Access granted for user type: %s", userType)
					return next(c)
				}
			}

			c.Logger().Errorf("Access denied for user type: %s, allowed types: %v", userType, allowedTypes)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}

// RequireApprovedAccount gates the messaging and matching surfaces: only
// accounts whose current approval state is "approved" may pass. Admins are
// always allowed. The check re-reads the user document so a rejection takes
// effect on the next request, not on the next login.
func RequireApprovedAccount(db *mongo.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)
			if userType == "admin" {
				return next(c)
			}

			userID := GetUserIDFromToken(c)
			objID, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Invalid user ID in token",
				})
			}

			var user models.User
			err = config.GetCollection(db, "users").FindOne(c.Request().Context(), bson.M{"_id": objID}).Decode(&user)
			if err != nil {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Account not found",
				})
			}

			if !user.IsApproved() {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Your account has not been approved yet",
				})
			}

			return next(c)
		}
	}
}
