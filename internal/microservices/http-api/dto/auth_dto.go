package dto

import "notifyhub/internal/microservices/http-api/models"

// RegisterRequest: payload to create an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
}

// LoginRequest: credentials for token issuance
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateFCMTokenRequest: device token for push delivery; empty detaches the device
type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}

// LoginResponse: issued access token plus the account
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
