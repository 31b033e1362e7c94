package circuits

import (
	"fmt"
	"time"

	"f1dashbot/pkg/model"
)

// F1 theme colours shared with the browser dashboard.
const (
	markerSizeActive   = 12
	markerSizeInactive = 8
	colorActive        = "#E10600"
	colorInactive      = "#6B7280"
)

// Marker is one circuit on the world map. Size, colour and hover text are
// derived columns: a circuit is active when it hosts a completed round of
// the selected season.
type Marker struct {
	model.Circuit
	Active      bool   `json:"active"`
	Round       int    `json:"round,omitempty"`
	MarkerSize  int    `json:"markerSize"`
	MarkerColor string `json:"markerColor"`
	HoverText   string `json:"hoverText"`
}

// BuildMarkers derives the map markers for a season. Only rounds whose
// date is before now make a circuit active; future rounds do not.
func BuildMarkers(circuits []model.Circuit, schedule []model.Event, now time.Time) []Marker {
	completedRound := map[string]int{}
	for _, event := range schedule {
		if event.Date.Before(now) {
			completedRound[event.CircuitID] = event.Round
		}
	}

	markers := make([]Marker, 0, len(circuits))
	for _, circuit := range circuits {
		round, active := completedRound[circuit.ID]
		marker := Marker{
			Circuit:     circuit,
			Active:      active,
			Round:       round,
			MarkerSize:  markerSizeInactive,
			MarkerColor: colorInactive,
		}
		if active {
			marker.MarkerSize = markerSizeActive
			marker.MarkerColor = colorActive
		}
		marker.HoverText = hoverText(circuit, active)
		markers = append(markers, marker)
	}
	return markers
}

// hoverText carries the full circuit name; active circuits also advertise
// that clicking opens the round details.
func hoverText(circuit model.Circuit, active bool) string {
	text := fmt.Sprintf("%s\n📍 %s, %s\n🏁 %s", circuit.Name, circuit.Locality, circuit.Country, circuit.ID)
	if active {
		text += "\n🔗 Click para ver detalles"
	}
	return text
}
