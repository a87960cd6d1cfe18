package cli

import (
	"github.com/reciper/engine/internal/detector"
	"github.com/reciper/engine/providers/dotnet"
	"github.com/reciper/engine/providers/elixir"
	"github.com/reciper/engine/providers/golang"
	"github.com/reciper/engine/providers/java"
	"github.com/reciper/engine/providers/nodejs"
	"github.com/reciper/engine/providers/php"
	"github.com/reciper/engine/providers/python"
	"github.com/reciper/engine/providers/ruby"
	"github.com/reciper/engine/providers/rust"
)

// setupRegistry builds the stack-detection registry used by the "detect"
// and "query" (file-exists/detect-stack) surfaces, and by recipes that
// branch on the project's detected language or framework.
func setupRegistry() *detector.Registry {
	registry := detector.NewRegistry()

	nodejs.RegisterAll(registry)
	python.RegisterAll(registry)
	golang.RegisterAll(registry)
	rust.RegisterAll(registry)
	ruby.RegisterAll(registry)
	php.RegisterAll(registry)
	java.RegisterAll(registry)
	dotnet.RegisterAll(registry)
	elixir.RegisterAll(registry)

	return registry
}
