package commands

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/histsync/internal/cli/output"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Aliases: []string{"estadisticas"},
		Short:   "Show how many visits are stored per browser",
		RunE:    runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := cmdCtx.Service.Statistics(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(resp)
	}

	catalog, err := cmdCtx.Cfg.Catalog()
	if err != nil {
		return err
	}

	t := output.Table{
		Header: []string{"Navegador", "Registros"},
		Right:  []int{1},
		Footer: []string{"Total de registros", humanize.Comma(int64(resp.Stats.Total))},
	}
	for browser, n := range resp.Stats.PerSource.All() {
		t.Rows = append(t.Rows, []string{catalog.Lookup(browser).DisplayName, humanize.Comma(int64(n))})
	}

	r.Header(1, "Estadísticas")
	r.Table(t)
	return nil
}
