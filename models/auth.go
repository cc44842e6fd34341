package models

// SignupRequest registers a new candidate or agent. UserType is fixed at
// creation; accounts start in the pending state.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	UserType string `json:"userType" validate:"required,oneof=candidate agent"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest models
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleSignInRequest carries the Google ID token from the client.
type GoogleSignInRequest struct {
	IDToken  string `json:"idToken" validate:"required"`
	UserType string `json:"userType,omitempty"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// FCMTokenRequest registers a device token for push notifications.
type FCMTokenRequest struct {
	FCMToken string `json:"fcmToken" validate:"required"`
}
