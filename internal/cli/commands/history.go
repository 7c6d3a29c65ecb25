package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/histsync/internal/cli/output"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// Column widths of the text table.
const (
	titleWidth = 40
	urlWidth   = 60
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Browser string
	Limit   int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"historial"},
		Short:   "List stored visits, newest first",
		Example: `  # Last 100 visits from any browser
  histsync history

  # Last 20 Firefox visits as JSON
  histsync history -b firefox -n 20 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Browser, "browser", "b", "", "Only list visits from this browser")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", core.DefaultHistoryLimit, "Maximum number of visits")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	if opts.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", opts.Limit)
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := cmdCtx.Service.History(cmd.Context(), core.HistoryFilter{
		Browser: opts.Browser,
		Limit:   opts.Limit,
	})
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(resp)
	}

	t := output.Table{Header: []string{"Fecha", "Navegador", "Título", "URL"}}
	for _, e := range resp.Entries {
		title, url := e.Title, e.URL
		if mode == output.ModeText {
			title = runewidth.Truncate(title, titleWidth, "…")
			url = runewidth.Truncate(url, urlWidth, "…")
		}
		t.Rows = append(t.Rows, []string{e.VisitedAt, e.Browser, title, url})
	}

	r.Header(1, "Historial")
	r.Table(t)
	r.Muted(humanize.Comma(int64(resp.Count)) + " registros")
	return nil
}
