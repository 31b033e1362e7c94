package standings

import (
	"context"
	"sort"
	"time"

	"f1dashbot/pkg/helper"
	"f1dashbot/pkg/model"
)

// Provider is the slice of the results API the aggregator needs.
type Provider interface {
	GetSchedule(ctx context.Context, season int) ([]model.Event, error)
	GetRaceResults(ctx context.Context, season, round int) ([]model.RaceResult, error)
	GetSprintResults(ctx context.Context, season, round int) ([]model.RaceResult, error)
}

// Matrix is the driver × round points pivot of a season, plus the derived
// total points ranking. Drivers are ordered ascending by total points so
// the heatmap shows leaders at the top. Missing (driver, round) cells hold
// 0 points and an absent position; the two defaults are deliberately
// different, 0 is not a valid finishing position.
type Matrix struct {
	Season          int                         `json:"season"`
	Rounds          []int                       `json:"rounds"`
	EventNames      []string                    `json:"eventNames"`
	ShortEventNames []string                    `json:"shortEventNames"`
	SprintFlags     []bool                      `json:"sprintFlags"`
	Drivers         []string                    `json:"drivers"`
	DriverNames     map[string]string           `json:"driverNames"`
	Points          map[string][]float64        `json:"points"`
	Positions       map[string][]model.Position `json:"positions"`
	TotalPoints     map[string]float64          `json:"totalPoints"`
}

func (m Matrix) IsEmpty() bool {
	return len(m.Drivers) == 0
}

// RoundIndex returns the column of a round number.
func (m Matrix) RoundIndex(round int) (int, bool) {
	for i, r := range m.Rounds {
		if r == round {
			return i, true
		}
	}
	return 0, false
}

type record struct {
	round      int
	driver     string
	driverName string
	points     float64
	position   model.Position
}

// Aggregator turns per-event results into a season standings matrix. It is
// stateless; construct one and pass it to whatever owns the request
// lifecycle.
type Aggregator struct {
	provider Provider
}

func NewAggregator(provider Provider) *Aggregator {
	return &Aggregator{provider: provider}
}

// Aggregate builds the standings matrix of a season from every event that
// completed before now. Events on or after now are excluded outright. Any
// fetch error aborts the whole aggregation; no partial matrix is returned.
func (a *Aggregator) Aggregate(ctx context.Context, season int, now time.Time) (Matrix, error) {
	schedule, err := a.provider.GetSchedule(ctx, season)
	if err != nil {
		return Matrix{}, err
	}

	completed := make([]model.Event, 0, len(schedule))
	for _, event := range schedule {
		if event.Date.Before(now) {
			completed = append(completed, event)
		}
	}
	// column order is by round number, never by fetch order
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].Round < completed[j].Round
	})

	matrix := Matrix{
		Season:      season,
		DriverNames: map[string]string{},
		Points:      map[string][]float64{},
		Positions:   map[string][]model.Position{},
		TotalPoints: map[string]float64{},
	}

	var records []record
	for _, event := range completed {
		matrix.Rounds = append(matrix.Rounds, event.Round)
		matrix.EventNames = append(matrix.EventNames, event.Name)
		matrix.ShortEventNames = append(matrix.ShortEventNames, helper.ShortenEventName(event.Name))
		matrix.SprintFlags = append(matrix.SprintFlags, event.HasSprint())

		race, err := a.provider.GetRaceResults(ctx, season, event.Round)
		if err != nil {
			return Matrix{}, err
		}

		var sprint []model.RaceResult
		if event.HasSprint() {
			sprint, err = a.provider.GetSprintResults(ctx, season, event.Round)
			if err != nil {
				return Matrix{}, err
			}
		}

		for _, result := range race {
			records = append(records, record{
				round:      event.Round,
				driver:     result.Driver,
				driverName: result.DriverName,
				points:     result.Points + sprintPoints(sprint, result.Driver),
				position:   result.Position,
			})
		}
	}

	a.pivot(&matrix, records)
	return matrix, nil
}

// sprintPoints finds a driver's sprint points by exact abbreviation match.
// No sprint record means 0 points, not an error.
func sprintPoints(sprint []model.RaceResult, driver string) float64 {
	for _, result := range sprint {
		if result.Driver == driver {
			return result.Points
		}
	}
	return 0
}

func (a *Aggregator) pivot(matrix *Matrix, records []record) {
	column := make(map[int]int, len(matrix.Rounds))
	for i, round := range matrix.Rounds {
		column[round] = i
	}

	for _, rec := range records {
		if _, seen := matrix.Points[rec.driver]; !seen {
			matrix.Drivers = append(matrix.Drivers, rec.driver)
			matrix.DriverNames[rec.driver] = rec.driverName
			matrix.Points[rec.driver] = make([]float64, len(matrix.Rounds))
			matrix.Positions[rec.driver] = make([]model.Position, len(matrix.Rounds))
		}
		col := column[rec.round]
		matrix.Points[rec.driver][col] = rec.points
		matrix.Positions[rec.driver][col] = rec.position
	}

	for _, driver := range matrix.Drivers {
		total := 0.0
		for _, points := range matrix.Points[driver] {
			total += points
		}
		matrix.TotalPoints[driver] = total
	}

	// lowest-scoring driver first, stable for equal totals
	sort.SliceStable(matrix.Drivers, func(i, j int) bool {
		return matrix.TotalPoints[matrix.Drivers[i]] < matrix.TotalPoints[matrix.Drivers[j]]
	})
}
