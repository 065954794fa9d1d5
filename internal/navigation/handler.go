package navigation

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/eleven-am/vision-nav/internal/directions"
	"github.com/eleven-am/vision-nav/internal/dto"
	"github.com/eleven-am/vision-nav/internal/shared"
	"github.com/labstack/echo/v4"
)

const (
	maxMessageLen    = 240
	maxLabelLen      = 120
	maxIdentifierLen = 64
)

type Handler struct {
	store        *Store
	destinations *DestinationStore
	router       directions.Router
	visionToken  string
	logger       *slog.Logger
}

func NewHandler(store *Store, destinations *DestinationStore, router directions.Router, visionToken string, logger *slog.Logger) *Handler {
	return &Handler{
		store:        store,
		destinations: destinations,
		router:       router,
		visionToken:  visionToken,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/decision", h.SubmitDecision)
	g.GET("/decision/latest", h.LatestDecision)
	g.GET("/decision/history", h.DecisionHistory)
	g.POST("/destination", h.SetDestination)
	g.GET("/destination/:room", h.GetDestination)
	g.DELETE("/destination/:room", h.ClearDestination)
	g.POST("/directions/next", h.NextDirection)
}

// authorize rejects decision submissions that do not carry the configured
// vision token. When no token is configured, submissions are open.
func (h *Handler) authorize(c echo.Context) error {
	if h.visionToken == "" {
		return nil
	}
	if c.Request().Header.Get("Authorization") != "Bearer "+h.visionToken {
		return shared.Unauthorized("invalid_token", "invalid vision token")
	}
	return nil
}

// SubmitDecision godoc
// @Summary      Record a navigation decision
// @Description  Stores a steering decision from the vision supervisor as the room's latest
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.DecisionResponse
// @Failure      400  {object}  shared.APIError
// @Failure      401  {object}  shared.APIError
// @Router       /navigation/decision [post]
func (h *Handler) SubmitDecision(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	var req dto.DecisionRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Room == "" {
		return shared.BadRequest("room_required", "room is required")
	}
	command := Command(req.Command)
	if !command.Valid() {
		return shared.BadRequest("invalid_command", "unknown navigation command")
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLen {
		return shared.BadRequest("message_too_long", "message exceeds 240 characters")
	}
	if utf8.RuneCountInString(req.Source) > maxIdentifierLen {
		return shared.BadRequest("source_too_long", "source exceeds 64 characters")
	}
	if req.Confidence != nil && (*req.Confidence < 0 || *req.Confidence > 1) {
		return shared.BadRequest("invalid_confidence", "confidence must be between 0 and 1")
	}

	entry := h.store.RecordDecision(req.Room, command, req.Message, req.Confidence, req.Source)
	h.logger.Debug("decision recorded",
		"room", entry.Room,
		"command", entry.Command,
		"sequence", entry.Sequence)

	return c.JSON(http.StatusOK, decisionToResponse(entry))
}

// LatestDecision godoc
// @Summary      Get the latest decision
// @Description  Returns the room's latest unexpired steering decision
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  dto.DecisionResponse
// @Failure      404  {object}  shared.APIError
// @Router       /navigation/decision/latest [get]
func (h *Handler) LatestDecision(c echo.Context) error {
	room := c.QueryParam("room")
	if room == "" {
		return shared.BadRequest("room_required", "room is required")
	}

	entry := h.store.GetLatestDecision(room)
	if entry == nil {
		return shared.NotFound("no_decision", "no decision available")
	}
	return c.JSON(http.StatusOK, decisionToResponse(entry))
}

// DecisionHistory godoc
// @Summary      Get decision history
// @Description  Returns the room's bounded decision history, oldest first
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  dto.DecisionHistoryResponse
// @Failure      400  {object}  shared.APIError
// @Router       /navigation/decision/history [get]
func (h *Handler) DecisionHistory(c echo.Context) error {
	room := c.QueryParam("room")
	if room == "" {
		return shared.BadRequest("room_required", "room is required")
	}

	history := h.store.GetHistory(room)
	decisions := make([]dto.DecisionResponse, len(history))
	for i, entry := range history {
		decisions[i] = decisionToResponse(entry)
	}
	return c.JSON(http.StatusOK, dto.DecisionHistoryResponse{
		Room:      room,
		Decisions: decisions,
	})
}

// SetDestination godoc
// @Summary      Set a destination
// @Description  Stores the room's destination, overwriting any previous one
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.DestinationResponse
// @Failure      400  {object}  shared.APIError
// @Router       /navigation/destination [post]
func (h *Handler) SetDestination(c echo.Context) error {
	var req dto.DestinationRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Room == "" {
		return shared.BadRequest("room_required", "room is required")
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return shared.BadRequest("invalid_latitude", "latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return shared.BadRequest("invalid_longitude", "longitude must be between -180 and 180")
	}
	if utf8.RuneCountInString(req.Label) > maxLabelLen {
		return shared.BadRequest("label_too_long", "label exceeds 120 characters")
	}
	if utf8.RuneCountInString(req.RequestedBy) > maxIdentifierLen {
		return shared.BadRequest("requested_by_too_long", "requested_by exceeds 64 characters")
	}

	entry := h.destinations.SetDestination(req.Room, req.Latitude, req.Longitude, req.Label, req.RequestedBy)
	return c.JSON(http.StatusOK, destinationToResponse(entry))
}

// GetDestination godoc
// @Summary      Get the destination
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  dto.DestinationResponse
// @Failure      404  {object}  shared.APIError
// @Router       /navigation/destination/{room} [get]
func (h *Handler) GetDestination(c echo.Context) error {
	room := c.Param("room")
	entry := h.destinations.GetDestination(room)
	if entry == nil {
		return shared.NotFound("no_destination", "destination not set")
	}
	return c.JSON(http.StatusOK, destinationToResponse(entry))
}

// ClearDestination godoc
// @Summary      Clear the destination
// @Tags         navigation
// @Success      204
// @Router       /navigation/destination/{room} [delete]
func (h *Handler) ClearDestination(c echo.Context) error {
	h.destinations.ClearDestination(c.Param("room"))
	return c.NoContent(http.StatusNoContent)
}

// NextDirection godoc
// @Summary      Get the next guidance step
// @Description  Resolves turn-by-turn guidance from the caller's position to the room's destination
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.DirectionsResponse
// @Failure      404  {object}  shared.APIError
// @Failure      502  {object}  shared.APIError
// @Failure      503  {object}  shared.APIError
// @Router       /navigation/directions/next [post]
func (h *Handler) NextDirection(c echo.Context) error {
	var req dto.DirectionsRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Room == "" {
		return shared.BadRequest("room_required", "room is required")
	}

	destination := h.destinations.GetDestination(req.Room)
	if destination == nil {
		return shared.NotFound("no_destination", "destination not set")
	}
	if h.router == nil {
		return shared.ServiceUnavailable("directions_unavailable", "directions service unavailable")
	}

	guidance, err := h.router.GetRoute(c.Request().Context(), req.Latitude, req.Longitude, destination.Latitude, destination.Longitude, strings.ToLower(req.Mode))
	if err != nil {
		h.logger.Error("directions lookup failed", "error", err, "room", req.Room)
		return shared.BadGateway("directions_failed", "directions lookup failed")
	}

	return c.JSON(http.StatusOK, dto.DirectionsResponse{
		Summary:              guidance.Summary,
		TotalDistanceMeters:  guidance.TotalDistanceMeters,
		TotalDurationSeconds: guidance.TotalDurationSeconds,
		NextStep: dto.DirectionStep{
			Instruction:     guidance.NextStep.Instruction,
			DistanceMeters:  guidance.NextStep.DistanceMeters,
			DistanceText:    guidance.NextStep.DistanceText,
			DurationSeconds: guidance.NextStep.DurationSeconds,
			DurationText:    guidance.NextStep.DurationText,
			TravelMode:      guidance.NextStep.TravelMode,
		},
		DestinationLatitude:  destination.Latitude,
		DestinationLongitude: destination.Longitude,
	})
}

func decisionToResponse(entry *DecisionEntry) dto.DecisionResponse {
	return dto.DecisionResponse{
		Sequence:   entry.Sequence,
		Room:       entry.Room,
		Command:    string(entry.Command),
		Message:    entry.Message,
		Confidence: entry.Confidence,
		Source:     entry.Source,
		CreatedAt:  entry.CreatedAt,
		ExpiresAt:  entry.ExpiresAt,
	}
}

func destinationToResponse(entry *DestinationEntry) dto.DestinationResponse {
	return dto.DestinationResponse{
		Room:        entry.Room,
		Latitude:    entry.Latitude,
		Longitude:   entry.Longitude,
		Label:       entry.Label,
		RequestedBy: entry.RequestedBy,
		UpdatedAt:   entry.UpdatedAt,
	}
}
