package commands

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/histsync/internal/cli/output"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// NewReadCommand creates the read command.
func NewReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "read",
		Aliases: []string{"leer"},
		Short:   "Read browser history into the database",
		Long: `Read the history of every configured browser and store it.

Each browser is reported as read (with how many visits were read and how many
were new) or as not available when no profile was found.`,
		Example: `  # Harvest with the configured browsers
  histsync read

  # Machine-readable summary
  histsync read -o json`,
		RunE: runRead,
	}
}

func runRead(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	catalog, err := cmdCtx.Cfg.Catalog()
	if err != nil {
		return err
	}

	spinner := r.NewSpinner(cmdCtx.Cfg.Labels().Busy)
	resp, err := cmdCtx.Service.RunAction(cmd.Context())
	spinner.Stop()
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(resp)
	}

	r.Header(1, "Resultado")
	r.Table(summaryTable(catalog, resp))
	r.Success(resp.Message)
	return nil
}

// summaryTable lists one row per browser in harvest order.
func summaryTable(catalog *render.Catalog, resp *core.ActionResponse) output.Table {
	t := output.Table{
		Header: []string{"Navegador", "Estado", "Leídos", "Insertados"},
		Right:  []int{2, 3},
		Footer: []string{"Total", "", "", humanize.Comma(int64(resp.TotalInserted))},
	}
	if resp.Summary == nil {
		return t
	}

	read := 0
	for browser, res := range resp.Summary.All() {
		name := catalog.Lookup(browser).DisplayName
		if !res.Found {
			t.Rows = append(t.Rows, []string{name, render.UnavailableLabel, "", ""})
			continue
		}
		status := "leído"
		if res.Error != "" {
			status = "error: " + res.Error
		}
		read += res.ReadCount
		t.Rows = append(t.Rows, []string{
			name,
			status,
			humanize.Comma(int64(res.ReadCount)),
			humanize.Comma(int64(res.InsertedCount)),
		})
	}
	t.Footer[2] = humanize.Comma(int64(read))
	return t
}
