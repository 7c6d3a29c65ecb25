package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/histsync/internal/cli/config"
	"github.com/leapstack-labs/histsync/internal/client"
	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
	Backend   string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the histsync web page",
		Long: `Start a local web server with the history harvest page.

The page provides:
- A button that reads every configured browser and stores the result
- One result card per browser with inserted and read counts
- Statistics of the stored history, refreshed after each harvest
- A filterable list of stored visits
- A JSON API under /api for scripts`,
		Example: `  # Start on the default port
  histsync serve

  # Start on a custom port without watching the database
  histsync serve --port 3000 --watch=false

  # Drive a histsync running elsewhere
  histsync serve --backend http://192.168.1.10:5000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultPort))
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't open the browser even if ui.auto_open is set")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Refresh open pages when the database changes")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Serve assets from disk and enable live reload")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "Base URL of a histsync that runs the harvests")

	return cmd
}

// serverConfig merges the serve flags over the loaded configuration.
func serverConfig(cmd *cobra.Command, cmdCtx *CommandContext, opts *ServeOptions) (ui.Config, error) {
	cfg := cmdCtx.Cfg
	uiCfg := cfg.UI

	if opts.Port != 0 {
		uiCfg.Port = opts.Port
	}
	if cmd.Flags().Changed("watch") {
		uiCfg.Watch = opts.Watch
	}
	if opts.Dev {
		uiCfg.Dev = true
	}
	if opts.Backend != "" {
		uiCfg.BackendURL = opts.Backend
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return ui.Config{}, err
	}

	secret := uiCfg.SessionSecret
	if secret == "" {
		secret = string(securecookie.GenerateRandomKey(32))
		cmdCtx.Logger.Debug("no ui.session_secret configured, using a random key")
	}

	var backend coordinator.Backend
	if uiCfg.BackendURL != "" {
		backend = client.New(uiCfg.BackendURL, client.WithLogger(cmdCtx.Logger))
		cmdCtx.Logger.Info("harvests run remotely", "backend", uiCfg.BackendURL)
	}

	return ui.Config{
		Service:           cmdCtx.Service,
		Backend:           backend,
		Catalog:           catalog,
		Labels:            cfg.Labels(),
		Browsers:          cmdCtx.Reader.Browsers(),
		ActionMinInterval: cfg.Action.MinInterval,
		Port:              uiCfg.Port,
		Watch:             uiCfg.Watch,
		Dev:               uiCfg.Dev,
		SessionSecret:     secret,
		StatePath:         cfg.StatePath,
		Logger:            cmdCtx.Logger,
	}, nil
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	serverCfg, err := serverConfig(cmd, cmdCtx, opts)
	if err != nil {
		return err
	}
	server := ui.NewServer(serverCfg)

	url := fmt.Sprintf("http://localhost:%d", serverCfg.Port)
	if cmdCtx.Cfg.UI.AutoOpen && !opts.NoBrowser {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Printf("Starting histsync on %s\n", url)
	r.Muted("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
