package dto

import "time"

type TokenRequest struct {
	Room     string `json:"room,omitempty" example:"vision-nav-room"`
	Identity string `json:"identity" example:"user_abc123"`
	Name     string `json:"name,omitempty" example:"Alex"`
}

type TokenResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	URL       string    `json:"url" example:"wss://livekit.example.com"`
	Room      string    `json:"room" example:"vision-nav-room"`
	Identity  string    `json:"identity" example:"user_abc123"`
	ExpiresAt time.Time `json:"expires_at"`
}
