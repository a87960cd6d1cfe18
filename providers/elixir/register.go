package elixir

import (
	"github.com/reciper/engine/internal/detector"
)

// RegisterAll registers all Elixir providers with the registry
func RegisterAll(registry *detector.Registry) {
	registry.Register(NewPhoenixProvider())
	// Future providers:
	// registry.Register(NewNerves Provider())
}
