package model

import (
	"strconv"
	"time"
)

// Event formats as reported by the schedule. F1 has used several names for
// the sprint weekend format over the years: "sprint" (2021-2022),
// "sprint_shootout" (2023) and "sprint_qualifying" (2024 onwards).
const (
	FormatConventional     = "conventional"
	FormatSprint           = "sprint"
	FormatSprintShootout   = "sprint_shootout"
	FormatSprintQualifying = "sprint_qualifying"
)

// Event is one race weekend of a season. Immutable once fetched.
type Event struct {
	Season    int       `json:"season"`
	Round     int       `json:"round"`
	Name      string    `json:"name"`
	CircuitID string    `json:"circuitId"`
	Date      time.Time `json:"date"`
	Format    string    `json:"format"`
}

func (e Event) HasSprint() bool {
	switch e.Format {
	case FormatSprint, FormatSprintShootout, FormatSprintQualifying:
		return true
	}
	return false
}

// PositionNotAvailable labels a driver with no classified finishing
// position in a round. It is deliberately not a number: 0 is not a valid
// position and must never be shown as one.
const PositionNotAvailable = "N/A"

// Position is a finishing position that may be absent. The zero value is
// the absent marker.
type Position struct {
	Rank  int
	Valid bool
}

func NewPosition(rank int) Position {
	return Position{Rank: rank, Valid: true}
}

func (p Position) Label() string {
	if !p.Valid {
		return PositionNotAvailable
	}
	return strconv.Itoa(p.Rank)
}

func (p Position) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.Label())), nil
}

func (p *Position) UnmarshalJSON(data []byte) error {
	label, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	if label == PositionNotAvailable {
		*p = Position{}
		return nil
	}
	rank, err := strconv.Atoi(label)
	if err != nil {
		return err
	}
	*p = NewPosition(rank)
	return nil
}

// RaceResult is one driver's classified result in a race or sprint.
type RaceResult struct {
	Driver      string   `json:"driver"` // abbreviation, e.g. VER
	DriverName  string   `json:"driverName"`
	Constructor string   `json:"constructor"`
	Points      float64  `json:"points"`
	Position    Position `json:"position"`
	Grid        int      `json:"grid"`
	Laps        int      `json:"laps"`
	Status      string   `json:"status"`
	Time        string   `json:"time"`
}

// QualifyingResult is one driver's qualifying classification.
type QualifyingResult struct {
	Driver      string   `json:"driver"`
	DriverName  string   `json:"driverName"`
	Constructor string   `json:"constructor"`
	Position    Position `json:"position"`
	Q1          string   `json:"q1"`
	Q2          string   `json:"q2"`
	Q3          string   `json:"q3"`
}

// BestTime returns the best qualifying time, preferring the latest
// session the driver reached.
func (q QualifyingResult) BestTime() string {
	if q.Q3 != "" {
		return q.Q3
	}
	if q.Q2 != "" {
		return q.Q2
	}
	return q.Q1
}

// Circuit is a venue with its world map coordinates.
type Circuit struct {
	ID       string  `json:"circuitId"`
	Name     string  `json:"circuitName"`
	Locality string  `json:"locality"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Long     float64 `json:"long"`
}

// TrackPoint is one telemetry sample of the track centre line.
type TrackPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
