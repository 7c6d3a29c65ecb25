// Package history serves the stored-history page.
package history

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	"github.com/leapstack-labs/histsync/internal/ui/features/history/components"
	"github.com/leapstack-labs/histsync/internal/ui/render"
)

// SetupRoutes configures routes for the history feature.
func SetupRoutes(
	router chi.Router,
	service common.HistoryService,
	sessionStore sessions.Store,
	catalog *render.Catalog,
	browsers []string,
	isDev bool,
) error {
	handlers := NewHandlers(service, sessionStore, catalog, browsers, isDev)

	router.Get("/history", handlers.HistoryPage)
	router.Get(components.TableURL, handlers.HistoryTable)

	return nil
}
