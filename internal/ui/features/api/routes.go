// Package api serves the JSON endpoints of histsync.
package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/leapstack-labs/histsync/internal/client"
	"github.com/leapstack-labs/histsync/internal/ui/features/common"
)

// SetupRoutes configures routes for the api feature. Harvests take guard
// for their whole run and are limited to one per minInterval; zero disables
// the limit. Successful harvests are announced through notifier.
func SetupRoutes(router chi.Router, service common.HistoryService, guard Guard, notifier Broadcaster, minInterval time.Duration, logger *slog.Logger) error {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	handlers := NewHandlers(service, guard, rate.NewLimiter(limit, 1), notifier, logger)

	router.Post(client.ActionPath, handlers.RunAction)
	router.Get(client.StatisticsPath, handlers.Statistics)
	router.Get(HistoryPath, handlers.History)

	return nil
}
