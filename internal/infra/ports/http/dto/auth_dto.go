package dto

import "github.com/google/uuid"

type GoogleLoginResponse struct {
	RedirectURL string `json:"redirectURL"`
}

type GetMeResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage"`
}

type AdminAccessRequest struct {
	Password string `json:"password"`
}
