// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/histsync/internal/coordinator"
	actionsFeature "github.com/leapstack-labs/histsync/internal/ui/features/actions"
	apiFeature "github.com/leapstack-labs/histsync/internal/ui/features/api"
	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	historyFeature "github.com/leapstack-labs/histsync/internal/ui/features/history"
	homeFeature "github.com/leapstack-labs/histsync/internal/ui/features/home"
	runsFeature "github.com/leapstack-labs/histsync/internal/ui/features/runs"
	"github.com/leapstack-labs/histsync/internal/ui/notifier"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/internal/ui/resources"
)

// Deps are the collaborators shared by the feature routes.
type Deps struct {
	Coordinator       *coordinator.Coordinator
	Service           common.HistoryService
	SessionStore      sessions.Store
	Notifier          *notifier.Notifier
	Catalog           *render.Catalog
	Browsers          []string
	ActionMinInterval time.Duration
	Logger            *slog.Logger
	IsDev             bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := homeFeature.SetupRoutes(router, deps.Coordinator, deps.Notifier, deps.Logger, deps.IsDev); err != nil {
		return err
	}

	if err := actionsFeature.SetupRoutes(router, deps.Coordinator, deps.Logger); err != nil {
		return err
	}

	if err := historyFeature.SetupRoutes(router, deps.Service, deps.SessionStore, deps.Catalog, deps.Browsers, deps.IsDev); err != nil {
		return err
	}

	if err := runsFeature.SetupRoutes(router, deps.Service, deps.Notifier, deps.Logger, deps.IsDev); err != nil {
		return err
	}

	if err := apiFeature.SetupRoutes(router, deps.Service, deps.Coordinator, deps.Notifier, deps.ActionMinInterval, deps.Logger); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
