package commands

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/histsync/internal/cli/output"
	"github.com/leapstack-labs/histsync/pkg/core"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent harvest runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs")

	return cmd
}

// RunOutput is the JSON shape of a run.
type RunOutput struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Inserted    int        `json:"inserted"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func runRuns(cmd *cobra.Command, limit int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := cmdCtx.Service.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]RunOutput, 0, len(runs))
		for _, run := range runs {
			out = append(out, RunOutput{
				ID:          run.ID,
				Status:      string(run.Status),
				Inserted:    run.Inserted,
				StartedAt:   run.StartedAt,
				CompletedAt: run.CompletedAt,
				Error:       run.Error,
			})
		}
		return r.JSON(out)
	}

	t := output.Table{
		Header: []string{"Run", "Estado", "Insertados", "Inicio", "Duración", "Error"},
		Right:  []int{2},
	}
	for _, run := range runs {
		t.Rows = append(t.Rows, []string{
			shortID(run.ID),
			statusMarker(r, run.Status),
			strconv.Itoa(run.Inserted),
			humanize.Time(run.StartedAt),
			runDuration(run),
			run.Error,
		})
	}

	r.Header(1, "Ejecuciones")
	r.Table(t)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusMarker(r *output.Renderer, status core.RunStatus) string {
	styles := r.Styles()
	switch status {
	case core.RunStatusCompleted:
		return styles.StatusSuccess.String() + " " + string(status)
	case core.RunStatusFailed:
		return styles.StatusFailed.String() + " " + string(status)
	default:
		return styles.StatusMissing.String() + " " + string(status)
	}
}

func runDuration(run *core.Run) string {
	if run.CompletedAt == nil {
		return ""
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
