// Package home provides the harvest page and its live updates stream.
package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/ui/features/home/components"
	"github.com/leapstack-labs/histsync/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	coord *coordinator.Coordinator,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(coord, notify, logger, isDev)

	router.Get("/", handlers.HomePage)
	router.Get(components.UpdatesURL, handlers.HomePageUpdates)

	return nil
}
