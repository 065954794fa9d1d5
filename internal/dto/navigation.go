package dto

import "time"

type DecisionRequest struct {
	Room       string   `json:"room" example:"vision-nav-room"`
	Command    string   `json:"command" example:"TURN_LEFT"`
	Message    string   `json:"message,omitempty" example:"Obstacle ahead, veer left"`
	Confidence *float64 `json:"confidence,omitempty" example:"0.87"`
	Source     string   `json:"source,omitempty" example:"vision"`
}

type DecisionResponse struct {
	Sequence   uint64    `json:"sequence" example:"42"`
	Room       string    `json:"room" example:"vision-nav-room"`
	Command    string    `json:"command" example:"TURN_LEFT"`
	Message    string    `json:"message,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type DecisionHistoryResponse struct {
	Room      string             `json:"room"`
	Decisions []DecisionResponse `json:"decisions"`
}

type DestinationRequest struct {
	Room        string  `json:"room" example:"vision-nav-room"`
	Latitude    float64 `json:"latitude" example:"48.8584"`
	Longitude   float64 `json:"longitude" example:"2.2945"`
	Label       string  `json:"label,omitempty" example:"Eiffel Tower"`
	RequestedBy string  `json:"requested_by,omitempty" example:"companion-app"`
}

type DestinationResponse struct {
	Room        string    `json:"room"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Label       string    `json:"label,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DirectionsRequest struct {
	Room      string  `json:"room" example:"vision-nav-room"`
	Latitude  float64 `json:"latitude" example:"48.8570"`
	Longitude float64 `json:"longitude" example:"2.2950"`
	Mode      string  `json:"mode,omitempty" example:"walking"`
}

type DirectionStep struct {
	Instruction     string `json:"instruction"`
	DistanceMeters  int    `json:"distance_meters"`
	DistanceText    string `json:"distance_text"`
	DurationSeconds int    `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
	TravelMode      string `json:"travel_mode"`
}

type DirectionsResponse struct {
	Summary              string        `json:"summary"`
	TotalDistanceMeters  int           `json:"total_distance_meters"`
	TotalDurationSeconds int           `json:"total_duration_seconds"`
	NextStep             DirectionStep `json:"next_step"`
	DestinationLatitude  float64       `json:"destination_latitude"`
	DestinationLongitude float64       `json:"destination_longitude"`
}
