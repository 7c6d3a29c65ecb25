package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/histsync/internal/cli/config"
	"github.com/leapstack-labs/histsync/internal/client"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewServeCommand(), "serve", []string{"port", "no-browser", "watch", "dev", "backend"}},
		{NewReadCommand(), "read", nil},
		{NewStatsCommand(), "stats", nil},
		{NewHistoryCommand(), "history", []string{"browser", "limit"}},
		{NewRunsCommand(), "runs", []string{"limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestSummaryTable(t *testing.T) {
	summary := core.NewOrderedMap[core.SourceResult]()
	summary.Set("firefox", core.SourceResult{Found: true, ReadCount: 1500, InsertedCount: 1200})
	summary.Set("opera", core.SourceResult{Found: false})
	summary.Set("vivaldi_snapshot", core.SourceResult{Found: true, ReadCount: 3, InsertedCount: 0, Error: "locked"})

	table := summaryTable(render.DefaultCatalog(), &core.ActionResponse{
		Success:       true,
		Summary:       summary,
		TotalInserted: 1200,
	})

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Mozilla Firefox", "leído", "1,500", "1,200"}, table.Rows[0])
	assert.Equal(t, []string{"Opera", render.UnavailableLabel, "", ""}, table.Rows[1])
	assert.Equal(t, []string{"Vivaldi Snapshot", "error: locked", "3", "0"}, table.Rows[2])
	assert.Equal(t, []string{"Total", "", "1,503", "1,200"}, table.Footer)
}

func TestSummaryTable_NilSummary(t *testing.T) {
	table := summaryTable(render.DefaultCatalog(), &core.ActionResponse{Success: true})
	assert.Empty(t, table.Rows)
	assert.Equal(t, "0", table.Footer[3])
}

func TestServerConfig(t *testing.T) {
	newCmdCtx := func(t *testing.T) (*cobra.Command, *CommandContext) {
		t.Helper()
		config.ResetConfig()
		cmd := NewServeCommand()
		cmd.SetContext(context.Background())
		cfg := config.Default()
		cfg.StatePath = ":memory:"
		cmdCtx := &CommandContext{Cfg: cfg, Logger: config.GetLogger(cmd.Context())}
		reader, err := historyReader(cfg, cmdCtx.Logger)
		require.NoError(t, err)
		cmdCtx.Reader = reader
		return cmd, cmdCtx
	}

	t.Run("defaults run in-process", func(t *testing.T) {
		cmd, cmdCtx := newCmdCtx(t)
		sc, err := serverConfig(cmd, cmdCtx, &ServeOptions{})
		require.NoError(t, err)

		assert.Equal(t, config.DefaultPort, sc.Port)
		assert.True(t, sc.Watch)
		assert.Nil(t, sc.Backend)
		assert.Len(t, sc.SessionSecret, 32)
		assert.Equal(t, render.DefaultLabels, sc.Labels)
		assert.Equal(t, []string{"chrome", "edge", "firefox", "opera"}, sc.Browsers)
		assert.Equal(t, config.DefaultMinInterval, sc.ActionMinInterval)
	})

	t.Run("flags override config", func(t *testing.T) {
		cmd, cmdCtx := newCmdCtx(t)
		require.NoError(t, cmd.Flags().Set("watch", "false"))
		sc, err := serverConfig(cmd, cmdCtx, &ServeOptions{
			Port:    3000,
			Watch:   false,
			Dev:     true,
			Backend: "http://127.0.0.1:5000",
		})
		require.NoError(t, err)

		assert.Equal(t, 3000, sc.Port)
		assert.False(t, sc.Watch)
		assert.True(t, sc.Dev)
		assert.IsType(t, &client.Client{}, sc.Backend)
	})

	t.Run("configured secret is kept", func(t *testing.T) {
		cmd, cmdCtx := newCmdCtx(t)
		cmdCtx.Cfg.UI.SessionSecret = "configured-secret"
		sc, err := serverConfig(cmd, cmdCtx, &ServeOptions{})
		require.NoError(t, err)
		assert.Equal(t, "configured-secret", sc.SessionSecret)
	})
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{"default version", "0.1.0", []string{"histsync v0.1.0", "SQLite"}},
		{"custom version", "1.2.3", []string{"histsync v1.2.3"}},
		{"dev version", "dev", []string{"histsync vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
