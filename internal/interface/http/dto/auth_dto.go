package dto

import (
	"time"

	"github.com/ignatzorin/gigflow-backend/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

func ToAuthResponse(res *service.AuthResult) AuthResponse {
	summary := res.User.Summary()
	return AuthResponse{
		User:         *ToUserResponse(&summary),
		AccessToken:  res.TokenPair.AccessToken,
		RefreshToken: res.TokenPair.RefreshToken,
		ExpiresAt:    res.TokenPair.ExpiresAt,
	}
}
