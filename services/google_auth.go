package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lestrrat-go/jwx/jwk"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/middleware"
	"github.com/talentlink-app/talentlink_backend/models"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleAuthService verifies Google ID tokens and maps them onto accounts.
type GoogleAuthService struct {
	DB *mongo.Client
}

// NewGoogleAuthService creates a new Google auth service
func NewGoogleAuthService(db *mongo.Client) *GoogleAuthService {
	return &GoogleAuthService{DB: db}
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Subject       string `json:"sub"`
	Audience      string `json:"aud"`
	Issuer        string `json:"iss"`
	jwt.StandardClaims
}

// AuthenticateUser verifies the ID token and signs the user in, creating a
// pending account of the requested type on first sign-in. The userType only
// applies at creation; an existing account keeps its role.
func (s *GoogleAuthService) AuthenticateUser(ctx context.Context, idToken, userType string) (*models.LoginResponse, error) {
	claims, err := s.verifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Google token: %w", err)
	}
	if claims.Email == "" {
		return nil, errors.New("Google token carries no email")
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	collection := config.GetCollection(s.DB, "users")

	var user models.User
	err = collection.FindOne(dbCtx, bson.M{"email": claims.Email}).Decode(&user)
	switch {
	case err == mongo.ErrNoDocuments:
		now := time.Now()
		user = models.User{
			Email:          claims.Email,
			FullName:       claims.Name,
			UserType:       userType,
			GoogleUID:      claims.Subject,
			ProfilePic:     claims.Picture,
			IsActive:       true,
			ApprovalStatus: models.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if userType == models.UserTypeAgent {
			user.AgentInfo = &models.AgentInfo{}
		}
		result, err := collection.InsertOne(dbCtx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		user.ID = result.InsertedID.(primitive.ObjectID)
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	default:
		update := bson.M{"$set": bson.M{
			"googleUID": claims.Subject,
			"updatedAt": time.Now(),
		}}
		if user.ProfilePic == "" && claims.Picture != "" {
			update["$set"].(bson.M)["profilePic"] = claims.Picture
			user.ProfilePic = claims.Picture
		}
		if _, err := collection.UpdateOne(dbCtx, bson.M{"_id": user.ID}, update); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""
	user.NormalizeApprovalStatus()
	return &models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         &user,
	}, nil
}

// verifyIDToken checks the token signature against Google's published JWKS
// and validates issuer, audience and expiry.
func (s *GoogleAuthService) verifyIDToken(ctx context.Context, idToken string) (*googleClaims, error) {
	keySet, err := jwk.Fetch(ctx, googleJWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google JWKS: %w", err)
	}

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, ok := t.Header["kid"].(string)
		if !ok {
			return nil, errors.New("token has no kid header")
		}
		key, found := keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("unknown key id %s", kid)
		}
		var pubKey interface{}
		if err := key.Raw(&pubKey); err != nil {
			return nil, fmt.Errorf("failed to materialize public key: %w", err)
		}
		return pubKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	if claims.Issuer != "https://accounts.google.com" && claims.Issuer != "accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer %s", claims.Issuer)
	}
	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" && claims.Audience != clientID {
		return nil, errors.New("token audience does not match client id")
	}
	if !claims.EmailVerified {
		return nil, errors.New("Google account email is not verified")
	}
	return claims, nil
}
