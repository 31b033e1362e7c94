package results

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"f1dashbot/pkg/helper"
	"f1dashbot/pkg/model"
)

const (
	tablePosition    = "POS"
	tableDriver      = "PIL"
	tableConstructor = "EQU"
	tableTime        = "TIEMPO"
	tablePoints      = "PTS"
)

// RenderRaceTable renders a race or sprint classification.
func RenderRaceTable(results []model.RaceResult) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tablePosition, tableDriver, tableConstructor, tableTime, tablePoints})
	for _, r := range results {
		status := r.Time
		if status == "" {
			status = r.Status
		}
		t.AppendRow([]interface{}{
			r.Position.Label(),
			r.Driver,
			r.Constructor,
			status,
			helper.FormatPoints(r.Points),
		})
	}
	t.Render()
	return b.String()
}

// RenderQualifyingTable renders the qualifying classification with the
// three knockout segments.
func RenderQualifyingTable(results []model.QualifyingResult) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tablePosition, tableDriver, "Q1", "Q2", "Q3"})
	for _, r := range results {
		t.AppendRow([]interface{}{
			r.Position.Label(),
			r.Driver,
			orDash(r.Q1),
			orDash(r.Q2),
			orDash(r.Q3),
		})
	}
	t.Render()
	return b.String()
}

// RenderPoleCard summarises the pole sitter of a round.
func RenderPoleCard(results []model.QualifyingResult) (string, bool) {
	if len(results) == 0 {
		return "", false
	}
	pole := results[0]

	lines := []string{
		"🏁 POLE POSITION",
		"",
		fmt.Sprintf("‣ Piloto: %s (%s)", pole.DriverName, pole.Driver),
		fmt.Sprintf("‣ Equipo: %s", pole.Constructor),
		fmt.Sprintf("‣ Tiempo: %s", orDash(pole.BestTime())),
	}
	return strings.Join(lines, "\n"), true
}

func orDash(t string) string {
	if t == "" {
		return "-"
	}
	return t
}
