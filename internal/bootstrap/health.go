package bootstrap

import (
	"github.com/eleven-am/vision-nav/internal/health"
	"github.com/eleven-am/vision-nav/internal/navigation"
	"github.com/eleven-am/vision-nav/internal/vision"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const version = "1.0.0"

func ProvideHealthHandler(store *navigation.Store, cfg *Config) *health.Handler {
	var probe health.DetectorProbe
	if cfg.DetectorURL != "" {
		probe = vision.NewClient(vision.Config{
			DetectorURL: cfg.DetectorURL,
			Model:       cfg.DetectorModel,
		})
	}

	directionsSet := cfg.GoogleMapsAPIKey != ""
	livekitSet := cfg.LiveKitAPIKey != "" && cfg.LiveKitAPISecret != "" && cfg.LiveKitURL != ""

	return health.NewHandler(store, probe, directionsSet, livekitSet, version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
