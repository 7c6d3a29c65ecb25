package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table is a header plus rows of already formatted cells.
type Table struct {
	Header []string
	Rows   [][]string
	// Right lists the column indexes holding numbers.
	Right []int
	// Footer is rendered below the rows when set.
	Footer []string
}

// tableStyle is StyleLight with header and footer cells printed as given.
func tableStyle() table.Style {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	return style
}

// Table renders t as a box table in text mode and as a pipe table in
// markdown mode. A table with neither rows nor footer prints "(0 rows)".
func (r *Renderer) Table(t Table) {
	if len(t.Rows) == 0 && len(t.Footer) == 0 {
		r.Println("(0 rows)")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(tableStyle())
	tw.AppendHeader(toRow(t.Header))
	for _, row := range t.Rows {
		tw.AppendRow(toRow(row))
	}
	if len(t.Footer) > 0 {
		tw.AppendFooter(toRow(t.Footer))
	}

	configs := make([]table.ColumnConfig, 0, len(t.Right))
	for _, idx := range t.Right {
		configs = append(configs, table.ColumnConfig{
			Number:      idx + 1,
			Align:       text.AlignRight,
			AlignFooter: text.AlignRight,
		})
	}
	tw.SetColumnConfigs(configs)

	if r.EffectiveMode() == ModeMarkdown {
		tw.RenderMarkdown()
		r.Println("")
		return
	}
	tw.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
