package standings

import (
	"bytes"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"f1dashbot/pkg/helper"
)

const (
	tablePosition = "POS"
	tableDriver   = "PIL"
	tablePoints   = "PTS"
)

// RenderTotalsTable renders the championship classification, leader first.
func (m Matrix) RenderTotalsTable() string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tablePosition, tableDriver, tablePoints})
	for i := len(m.Drivers) - 1; i >= 0; i-- {
		driver := m.Drivers[i]
		t.AppendRow([]interface{}{
			len(m.Drivers) - i,
			driver,
			helper.FormatPoints(m.TotalPoints[driver]),
		})
	}
	t.Render()
	return b.String()
}

// RenderRoundTable renders one column of the matrix: every driver's points
// and position in the given round.
func (m Matrix) RenderRoundTable(round int) (string, bool) {
	col, ok := m.RoundIndex(round)
	if !ok {
		return "", false
	}

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tablePosition, tableDriver, tablePoints})
	for i := len(m.Drivers) - 1; i >= 0; i-- {
		driver := m.Drivers[i]
		t.AppendRow([]interface{}{
			m.Positions[driver][col].Label(),
			driver,
			helper.FormatPoints(m.Points[driver][col]),
		})
	}
	t.Render()

	title := fmt.Sprintf("%s (R%d)\n\n", m.ShortEventNames[col], round)
	return title + b.String(), true
}
