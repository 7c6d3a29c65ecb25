// Package runs serves the harvest runs page.
package runs

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	"github.com/leapstack-labs/histsync/internal/ui/features/runs/components"
	"github.com/leapstack-labs/histsync/internal/ui/notifier"
)

// SetupRoutes registers the runs feature routes.
func SetupRoutes(
	router chi.Router,
	service common.HistoryService,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(service, notify, logger, isDev)

	router.Get("/runs", handlers.RunsPage)
	router.Get(components.UpdatesURL, handlers.RunsPageUpdates)
	router.Get("/runs/table", handlers.RunsTable)

	return nil
}
