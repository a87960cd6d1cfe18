package java

import (
	"github.com/reciper/engine/internal/detector"
)

// RegisterAll registers all Java providers with the registry
func RegisterAll(registry *detector.Registry) {
	// Register in order of specificity
	registry.Register(NewSpringBootProvider())
	// Future providers:
	// registry.Register(NewQuarkusProvider())
	// registry.Register(NewMicronautProvider())
	// registry.Register(NewJakartaEEProvider())
}
