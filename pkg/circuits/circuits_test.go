package circuits

import (
	"strings"
	"testing"
	"time"

	"f1dashbot/pkg/model"
)

var testNow = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

func testCircuits() []model.Circuit {
	return []model.Circuit{
		{ID: "bahrain", Name: "Bahrain International Circuit", Locality: "Sakhir", Country: "Bahrain", Lat: 26.0325, Long: 50.5106},
		{ID: "monza", Name: "Autodromo Nazionale di Monza", Locality: "Monza", Country: "Italy", Lat: 45.6156, Long: 9.28111},
	}
}

func testSchedule() []model.Event {
	return []model.Event{
		{Season: 2023, Round: 1, Name: "Bahrain Grand Prix", CircuitID: "bahrain", Date: time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{Season: 2023, Round: 14, Name: "Italian Grand Prix", CircuitID: "monza", Date: time.Date(2023, 9, 3, 0, 0, 0, 0, time.UTC)},
	}
}

func TestBuildMarkersDerivedColumns(t *testing.T) {
	markers := BuildMarkers(testCircuits(), testSchedule(), testNow)
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}

	bahrain := markers[0]
	if !bahrain.Active {
		t.Error("bahrain hosted a completed round, must be active")
	}
	if bahrain.Round != 1 {
		t.Errorf("expected round 1, got %d", bahrain.Round)
	}
	if bahrain.MarkerSize != markerSizeActive || bahrain.MarkerColor != colorActive {
		t.Errorf("unexpected active styling: size=%d color=%q", bahrain.MarkerSize, bahrain.MarkerColor)
	}

	monza := markers[1]
	if monza.Active {
		t.Error("monza's round is in the future, must not be active")
	}
	if monza.MarkerSize != markerSizeInactive || monza.MarkerColor != colorInactive {
		t.Errorf("unexpected inactive styling: size=%d color=%q", monza.MarkerSize, monza.MarkerColor)
	}
}

func TestBuildMarkersHoverText(t *testing.T) {
	markers := BuildMarkers(testCircuits(), testSchedule(), testNow)

	bahrain := markers[0]
	if !strings.Contains(bahrain.HoverText, "Bahrain International Circuit") {
		t.Errorf("hover text must carry the full name: %q", bahrain.HoverText)
	}
	if !strings.Contains(bahrain.HoverText, "Sakhir, Bahrain") {
		t.Errorf("hover text must carry the location: %q", bahrain.HoverText)
	}
	if !strings.Contains(bahrain.HoverText, "Click para ver detalles") {
		t.Errorf("active hover text must invite the click: %q", bahrain.HoverText)
	}

	monza := markers[1]
	if strings.Contains(monza.HoverText, "Click para ver detalles") {
		t.Errorf("inactive hover text must not invite the click: %q", monza.HoverText)
	}
}

func TestBuildMarkersCircuitWithoutRound(t *testing.T) {
	circuits := []model.Circuit{{ID: "jeddah", Name: "Jeddah Corniche Circuit", Locality: "Jeddah", Country: "Saudi Arabia"}}
	markers := BuildMarkers(circuits, testSchedule(), testNow)
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Active {
		t.Error("a circuit absent from the schedule must be inactive")
	}
}
