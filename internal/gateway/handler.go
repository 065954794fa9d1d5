package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eleven-am/vision-nav/internal/dto"
	"github.com/eleven-am/vision-nav/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	tokenService *TokenService
	defaultRoom  string
	logger       *slog.Logger
}

func NewHandler(tokenService *TokenService, defaultRoom string, logger *slog.Logger) *Handler {
	return &Handler{
		tokenService: tokenService,
		defaultRoom:  defaultRoom,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/token", h.CreateToken)
}

// CreateToken godoc
// @Summary      Create a LiveKit token
// @Description  Generates a LiveKit access token for joining the navigation room
// @Tags         livekit
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.TokenResponse
// @Failure      400  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /livekit/token [post]
func (h *Handler) CreateToken(c echo.Context) error {
	var req dto.TokenRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Identity == "" {
		return shared.BadRequest("identity_required", "identity is required")
	}

	room := req.Room
	if room == "" {
		room = h.defaultRoom
	}

	token, err := h.tokenService.GenerateToken(req.Identity, req.Name, room)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err, "identity", req.Identity)
		return shared.InternalError("token_failed", "failed to generate LiveKit token")
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     token,
		URL:       h.tokenService.URL(),
		Room:      room,
		Identity:  req.Identity,
		ExpiresAt: time.Now().UTC().Add(h.tokenService.TTL()),
	})
}
