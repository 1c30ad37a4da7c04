package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
)

func render(w io.Writer, report *matching.PreviewReport) {
	b := report.Brief
	fmt.Fprintf(w, "Бриф %s: %s / %s, бюджет %s, сроки %s\n\n", b.ID, b.Category, b.Industry, b.Budget, b.Timeline)

	ranked := table.NewWriter()
	ranked.SetOutputMirror(w)
	ranked.AppendHeader(table.Row{"#", "Designer", "Score", "Rating", "Years", "Confidence", "Reasons"})
	for i, c := range report.Ranked {
		ranked.AppendRow(table.Row{
			i + 1,
			c.Designer.DisplayName,
			c.Result.Score,
			fmt.Sprintf("%.1f", c.Designer.Rating),
			c.Designer.YearsExperience,
			c.Result.Confidence,
			strings.Join(c.Result.Reasons, "; "),
		})
	}
	if len(report.Ranked) == 0 {
		ranked.AppendRow(table.Row{"-", "нет подходящих дизайнеров", "", "", "", "", ""})
	}
	ranked.Render()

	if len(report.Rejected) > 0 {
		fmt.Fprintln(w)
		rejected := table.NewWriter()
		rejected.SetOutputMirror(w)
		rejected.AppendHeader(table.Row{"Designer", "Rejected by"})
		for _, r := range report.Rejected {
			rejected.AppendRow(table.Row{r.Designer.DisplayName, r.Reason})
		}
		rejected.Render()
	}

	fmt.Fprintf(w, "\nГотово за %s\n", report.Elapsed.Round(time.Millisecond))
}
