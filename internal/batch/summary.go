package batch

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/artnorm/internal/model"
)

// RenderSummary formats a run summary as a table.
//
// Plan summaries label the processed column "would process".
func RenderSummary(s model.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	title := "Summary"
	processed := "Processed"
	if s.DryRun {
		title = "Dry run summary"
		processed = "Would process"
	}
	if s.Interrupted {
		title += " (interrupted)"
	}
	tw.SetTitle(title)

	tw.AppendHeader(table.Row{"", "Count"})
	tw.AppendRow(table.Row{"Albums", strconv.Itoa(s.Albums)})
	tw.AppendRow(table.Row{"Tracks", strconv.Itoa(s.Tracks)})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{processed, strconv.Itoa(s.Processed)})
	tw.AppendRow(table.Row{"Skipped", strconv.Itoa(s.Skipped)})
	tw.AppendRow(table.Row{"Errored", strconv.Itoa(s.Errored)})

	decisions := []model.Decision{model.ResizeAndConvert, model.ConvertOnly, model.SkipCompliant, model.SkipNoArt}
	if len(s.Decisions) > 0 {
		tw.AppendSeparator()
		for _, d := range decisions {
			if n := s.Decisions[d]; n > 0 {
				tw.AppendRow(table.Row{fmt.Sprintf("Albums %s", d), strconv.Itoa(n)})
			}
		}
	}
	if s.NeedsAttention() {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{"Need attention", strconv.Itoa(len(s.Attention))})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
