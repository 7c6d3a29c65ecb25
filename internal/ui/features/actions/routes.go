// Package actions serves the harvest trigger and statistics refresh of the
// home page.
package actions

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/ui/features/home/components"
)

// SetupRoutes configures routes for the actions feature.
func SetupRoutes(router chi.Router, coord *coordinator.Coordinator, logger *slog.Logger) error {
	handlers := NewHandlers(coord, logger)

	router.Post(components.ActionURL, handlers.RunAction)
	router.Get(components.StatisticsURL, handlers.Statistics)

	return nil
}
