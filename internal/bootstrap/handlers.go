package bootstrap

import (
	"log/slog"
	"os"

	"github.com/eleven-am/vision-nav/internal/directions"
	"github.com/eleven-am/vision-nav/internal/gateway"
	"github.com/eleven-am/vision-nav/internal/navigation"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

// ProvideTokenService returns nil when LiveKit credentials are absent.
// The server still serves navigation routes; only token issuance is
// disabled.
func ProvideTokenService(cfg *Config, logger *slog.Logger) *gateway.TokenService {
	svc, err := gateway.NewTokenService(cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, cfg.LiveKitURL, 0)
	if err != nil {
		logger.Warn("livekit token issuance disabled", "error", err)
		return nil
	}
	return svc
}

func ProvideDirectionsRouter(cfg *Config, logger *slog.Logger) directions.Router {
	if cfg.GoogleMapsAPIKey == "" {
		logger.Warn("directions disabled, no api key configured")
		return nil
	}
	return directions.NewClient(cfg.GoogleMapsAPIKey)
}

func ProvideNavigationHandler(store *navigation.Store, destinations *navigation.DestinationStore, router directions.Router, cfg *Config, logger *slog.Logger) *navigation.Handler {
	return navigation.NewHandler(store, destinations, router, cfg.VisionAPIToken, logger.With("handler", "navigation"))
}

func ProvideGatewayHandler(tokenService *gateway.TokenService, cfg *Config, logger *slog.Logger) *gateway.Handler {
	if tokenService == nil {
		return nil
	}
	return gateway.NewHandler(tokenService, cfg.DefaultRoom, logger.With("handler", "gateway"))
}

type HandlerParams struct {
	fx.In

	NavigationHandler *navigation.Handler
	GatewayHandler    *gateway.Handler `optional:"true"`
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/api")

	params.NavigationHandler.RegisterRoutes(api.Group("/navigation"))

	if params.GatewayHandler != nil {
		params.GatewayHandler.RegisterRoutes(api.Group("/livekit"))
	}
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideTokenService,
		ProvideDirectionsRouter,
		ProvideNavigationHandler,
		ProvideGatewayHandler,
	),
	fx.Invoke(RegisterRoutes),
)
