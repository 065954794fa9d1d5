package bootstrap

import (
	"github.com/eleven-am/vision-nav/internal/navigation"
	"go.uber.org/fx"
)

func ProvideDecisionStore(cfg *Config) *navigation.Store {
	return navigation.NewStore(cfg.DecisionTTL, cfg.HistoryLimit)
}

func ProvideDestinationStore() *navigation.DestinationStore {
	return navigation.NewDestinationStore()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideDecisionStore,
		ProvideDestinationStore,
	),
)
