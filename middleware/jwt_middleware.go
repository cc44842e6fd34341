// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/config"
)

// Token lifetimes. Logout blacklists the presented token for its remaining
// lifetime, so nothing outlives AccessTokenTTL after a logout.
const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// JwtCustomClaims carries the session identity inside the signed token.
type JwtCustomClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	jwt.StandardClaims
}

// Valid implements jwt.Claims. Tokens issued before expiries were introduced
// carry ExpiresAt 0 and stay valid until they cycle out.
func (c JwtCustomClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return errors.New("token is expired")
	}
	if c.NotBefore > 0 && time.Now().Unix() < c.NotBefore {
		return errors.New("token used before valid")
	}
	return nil
}

// Logged-out tokens, keyed by raw token string. Written by the logout
// handler, read on every authenticated request and swept by the cleanup
// goroutine, so every access goes through the mutex.
var (
	blacklistMu    sync.RWMutex
	tokenBlacklist = make(map[string]time.Time)
)

// BlacklistToken invalidates a token until the given expiry.
func BlacklistToken(token string, expiry time.Time) {
	blacklistMu.Lock()
	tokenBlacklist[token] = expiry
	blacklistMu.Unlock()
}

// IsTokenBlacklisted reports whether the token was logged out.
func IsTokenBlacklisted(token string) bool {
	blacklistMu.RLock()
	_, exists := tokenBlacklist[token]
	blacklistMu.RUnlock()
	return exists
}

// CleanupBlacklist sweeps expired blacklist entries once an hour. Runs
// forever; start it in a goroutine.
func CleanupBlacklist() {
	for {
		time.Sleep(1 * time.Hour)
		purgeBlacklistedTokens(time.Now())
	}
}

func purgeBlacklistedTokens(now time.Time) {
	blacklistMu.Lock()
	for token, expiry := range tokenBlacklist {
		if now.After(expiry) {
			delete(tokenBlacklist, token)
		}
	}
	blacklistMu.Unlock()
}

// GetJWTSecret returns the signing secret. The process cannot serve
// authenticated traffic without it.
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// JWTMiddleware validates the bearer token, rejects logged-out tokens and
// copies the claims into the request context for the handlers downstream.
func JWTMiddleware() echo.MiddlewareFunc {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET environment variable is not set")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "JWT configuration error")
			}
		}
	}

	verify := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			token := c.Get("user").(*jwt.Token)
			claims := token.Claims.(*JwtCustomClaims)
			c.Set("userId", claims.UserID)
			c.Set("userType", claims.UserType)
			c.Set("email", claims.Email)
		},
		ErrorHandler: func(err error) error {
			log.Printf("JWT validation failed: %v", err)
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Please provide valid credentials")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			if token, ok := c.Get("user").(*jwt.Token); ok && IsTokenBlacklisted(token.Raw) {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Token has been invalidated")
			}
			return next(c)
		})
	}
}

// GenerateJWT mints the access and refresh token pair for a login.
func GenerateJWT(userID, email, userType string) (string, string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", "", errors.New("JWT_SECRET environment variable is required")
	}

	now := time.Now()
	sign := func(ttl time.Duration) (string, error) {
		claims := &JwtCustomClaims{
			UserID:   userID,
			Email:    email,
			UserType: userType,
			StandardClaims: jwt.StandardClaims{
				IssuedAt:  now.Unix(),
				ExpiresAt: now.Add(ttl).Unix(),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	}

	tokenString, err := sign(AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refreshTokenString, err := sign(RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return tokenString, refreshTokenString, nil
}

// GetUserFromToken returns the claims the JWT middleware attached to the
// request, or nil outside an authenticated route.
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user := c.Get("user")
	if user == nil {
		return nil
	}
	token, ok := user.(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

func ExtractUserID(c echo.Context) (string, error) {
	user := c.Get("user")
	if user == nil {
		return "", errors.New("invalid token")
	}
	token, ok := user.(*jwt.Token)
	if !ok {
		return "", errors.New("invalid token type")
	}

	if claims, ok := token.Claims.(*JwtCustomClaims); ok {
		return claims.UserID, nil
	}
	if mapClaims, ok := token.Claims.(jwt.MapClaims); ok {
		if userID, ok := mapClaims["userId"].(string); ok {
			return userID, nil
		}
	}
	return "", errors.New("invalid user ID in token")
}

// ExtractUserType reads the user type from the context keys the middleware
// set, falling back to the raw claims.
func ExtractUserType(c echo.Context) string {
	if userType, ok := c.Get("userType").(string); ok && userType != "" {
		return userType
	}
	if claims := GetUserFromToken(c); claims != nil {
		return claims.UserType
	}
	return ""
}

// GetUserIDFromToken reads the user id the same way, returning "" on
// unauthenticated routes.
func GetUserIDFromToken(c echo.Context) string {
	if userID, ok := c.Get("userId").(string); ok && userID != "" {
		return userID
	}
	if claims := GetUserFromToken(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// ActivityTracker stamps lastActivityAt on every authenticated request.
// Register it after JWTMiddleware; without claims it passes through.
func ActivityTracker(db *mongo.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := GetUserIDFromToken(c)
			if userID == "" {
				return next(c)
			}

			objID, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				return next(c)
			}

			// Fire and forget, the request never waits on the write.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				now := time.Now()
				_, err := config.GetCollection(db, "users").UpdateOne(ctx,
					bson.M{"_id": objID},
					bson.M{"$set": bson.M{
						"lastActivityAt": now,
						"isActive":       true,
						"updatedAt":      now,
					}},
				)
				if err != nil {
					log.Printf("Activity update failed for user %s: %v", userID, err)
				}
			}()

			return next(c)
		}
	}
}

// MarkInactiveUsers flips isActive off for accounts idle past the threshold.
// Called periodically from main.
func MarkInactiveUsers(db *mongo.Client, inactiveThreshold time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-inactiveThreshold)
	_, err := config.GetCollection(db, "users").UpdateMany(ctx,
		bson.M{"isActive": true, "lastActivityAt": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"isActive": false}},
	)
	if err != nil {
		log.Printf("Inactive user sweep failed: %v", err)
	}
}
