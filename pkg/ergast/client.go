package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"f1dashbot/pkg/model"
)

// Client talks to an Ergast-compatible F1 results API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, out *Envelope) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	// Close the response body on function return
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}

// GetSeasons returns every championship year the API knows about,
// ascending.
func (c *Client) GetSeasons(ctx context.Context) ([]int, error) {
	var envelope Envelope
	if err := c.get(ctx, "seasons.json?limit=200", &envelope); err != nil {
		return nil, errors.Wrap(err, "fetching seasons")
	}

	seasons := make([]int, 0, len(envelope.MRData.SeasonTable.Seasons))
	for _, s := range envelope.MRData.SeasonTable.Seasons {
		year, err := strconv.Atoi(s.Season)
		if err != nil {
			continue
		}
		seasons = append(seasons, year)
	}
	return seasons, nil
}

// GetSchedule returns the event calendar of a season, ordered by round.
func (c *Client) GetSchedule(ctx context.Context, season int) ([]model.Event, error) {
	var envelope Envelope
	if err := c.get(ctx, fmt.Sprintf("%d.json?limit=100", season), &envelope); err != nil {
		return nil, errors.Wrapf(err, "fetching schedule for season %d", season)
	}

	events := make([]model.Event, 0, len(envelope.MRData.RaceTable.Races))
	for _, race := range envelope.MRData.RaceTable.Races {
		round, err := strconv.Atoi(race.Round)
		if err != nil {
			return nil, errors.Wrapf(err, "bad round number %q in season %d", race.Round, season)
		}
		date, err := parseEventDate(race.Date, race.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "bad date for season %d round %d", season, round)
		}
		events = append(events, model.Event{
			Season:    season,
			Round:     round,
			Name:      race.RaceName,
			CircuitID: race.Circuit.CircuitId,
			Date:      date,
			Format:    eventFormat(season, race),
		})
	}
	return events, nil
}

// GetRaceResults returns the classified race results of one round.
func (c *Client) GetRaceResults(ctx context.Context, season, round int) ([]model.RaceResult, error) {
	var envelope Envelope
	if err := c.get(ctx, fmt.Sprintf("%d/%d/results.json", season, round), &envelope); err != nil {
		return nil, errors.Wrapf(err, "fetching race results for season %d round %d", season, round)
	}
	return raceResults(envelope, "Results"), nil
}

// GetSprintResults returns the sprint classification of one round. Rounds
// without a sprint yield an empty slice.
func (c *Client) GetSprintResults(ctx context.Context, season, round int) ([]model.RaceResult, error) {
	var envelope Envelope
	if err := c.get(ctx, fmt.Sprintf("%d/%d/sprint.json", season, round), &envelope); err != nil {
		return nil, errors.Wrapf(err, "fetching sprint results for season %d round %d", season, round)
	}
	return raceResults(envelope, "SprintResults"), nil
}

// GetQualifyingResults returns the qualifying classification of one round.
func (c *Client) GetQualifyingResults(ctx context.Context, season, round int) ([]model.QualifyingResult, error) {
	var envelope Envelope
	if err := c.get(ctx, fmt.Sprintf("%d/%d/qualifying.json", season, round), &envelope); err != nil {
		return nil, errors.Wrapf(err, "fetching qualifying results for season %d round %d", season, round)
	}

	var out []model.QualifyingResult
	for _, race := range envelope.MRData.RaceTable.Races {
		for _, r := range race.QualifyingResults {
			out = append(out, model.QualifyingResult{
				Driver:      abbreviation(r.Driver),
				DriverName:  fullName(r.Driver),
				Constructor: r.Constructor.Name,
				Position:    parsePosition(r.Position),
				Q1:          r.Q1,
				Q2:          r.Q2,
				Q3:          r.Q3,
			})
		}
	}
	return out, nil
}

// GetCircuits returns the venues used in a season.
func (c *Client) GetCircuits(ctx context.Context, season int) ([]model.Circuit, error) {
	var envelope Envelope
	if err := c.get(ctx, fmt.Sprintf("%d/circuits.json?limit=100", season), &envelope); err != nil {
		return nil, errors.Wrapf(err, "fetching circuits for season %d", season)
	}

	circuits := make([]model.Circuit, 0, len(envelope.MRData.CircuitTable.Circuits))
	for _, circuit := range envelope.MRData.CircuitTable.Circuits {
		lat, _ := strconv.ParseFloat(circuit.Location.Lat, 64)
		long, _ := strconv.ParseFloat(circuit.Location.Long, 64)
		circuits = append(circuits, model.Circuit{
			ID:       circuit.CircuitId,
			Name:     circuit.CircuitName,
			Locality: circuit.Location.Locality,
			Country:  circuit.Location.Country,
			Lat:      lat,
			Long:     long,
		})
	}
	return circuits, nil
}

func raceResults(envelope Envelope, kind string) []model.RaceResult {
	var out []model.RaceResult
	for _, race := range envelope.MRData.RaceTable.Races {
		results := race.Results
		if kind == "SprintResults" {
			results = race.SprintResults
		}
		for _, r := range results {
			points, _ := strconv.ParseFloat(r.Points, 64)
			grid, _ := strconv.Atoi(r.Grid)
			laps, _ := strconv.Atoi(r.Laps)
			out = append(out, model.RaceResult{
				Driver:      abbreviation(r.Driver),
				DriverName:  fullName(r.Driver),
				Constructor: r.Constructor.Name,
				Points:      points,
				Position:    parsePosition(r.Position),
				Grid:        grid,
				Laps:        laps,
				Status:      r.Status,
				Time:        r.Time.Time,
			})
		}
	}
	return out
}

func parsePosition(s string) model.Position {
	rank, err := strconv.Atoi(s)
	if err != nil || rank <= 0 {
		return model.Position{}
	}
	return model.NewPosition(rank)
}

// abbreviation prefers the official three-letter code; older seasons lack
// it, so fall back to the family name.
func abbreviation(d Driver) string {
	if d.Code != "" {
		return d.Code
	}
	name := d.FamilyName
	if len(name) > 3 {
		name = name[:3]
	}
	return strings.ToUpper(name)
}

func fullName(d Driver) string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}

func parseEventDate(date, clock string) (time.Time, error) {
	if clock != "" {
		return time.Parse(time.RFC3339, date+"T"+clock)
	}
	return time.Parse("2006-01-02", date)
}

// eventFormat derives the weekend format from the schedule. The sprint
// session block is only present on sprint weekends; the format name the
// championship used depends on the year.
func eventFormat(season int, race Race) string {
	sprint := race.Sprint.Date != "" || race.SprintQualifying.Date != "" || race.SprintShootout.Date != ""
	if !sprint {
		return model.FormatConventional
	}
	switch {
	case season <= 2022:
		return model.FormatSprint
	case season == 2023:
		return model.FormatSprintShootout
	default:
		return model.FormatSprintQualifying
	}
}
