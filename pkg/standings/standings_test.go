package standings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"f1dashbot/pkg/model"
	"f1dashbot/pkg/pubsub"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type fakeProvider struct {
	schedule    []model.Event
	race        map[int][]model.RaceResult
	sprint      map[int][]model.RaceResult
	raceErr     map[int]error
	sprintCalls []int

	mu            sync.Mutex
	scheduleCalls int

	gateSeason   int
	scheduleGate chan struct{} // schedule fetches for gateSeason block until closed
}

func (f *fakeProvider) GetSchedule(ctx context.Context, season int) ([]model.Event, error) {
	f.mu.Lock()
	f.scheduleCalls++
	f.mu.Unlock()
	if f.scheduleGate != nil && season == f.gateSeason {
		<-f.scheduleGate
	}
	return f.schedule, nil
}

func (f *fakeProvider) scheduleCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduleCalls
}

func (f *fakeProvider) GetRaceResults(ctx context.Context, season, round int) ([]model.RaceResult, error) {
	if err := f.raceErr[round]; err != nil {
		return nil, err
	}
	return f.race[round], nil
}

func (f *fakeProvider) GetSprintResults(ctx context.Context, season, round int) ([]model.RaceResult, error) {
	f.sprintCalls = append(f.sprintCalls, round)
	return f.sprint[round], nil
}

func event(round int, name string, date time.Time, format string) model.Event {
	return model.Event{Season: 2024, Round: round, Name: name, Date: date, Format: format}
}

func raceResult(driver string, points float64, position int) model.RaceResult {
	return model.RaceResult{Driver: driver, Points: points, Position: model.NewPosition(position)}
}

func TestAggregateEmptySeason(t *testing.T) {
	provider := &fakeProvider{
		schedule: []model.Event{
			event(1, "Bahrain Grand Prix", now.AddDate(0, 1, 0), model.FormatConventional),
			event(2, "Saudi Arabian Grand Prix", now.AddDate(0, 2, 0), model.FormatConventional),
		},
	}

	matrix, err := NewAggregator(provider).Aggregate(context.Background(), 2024, now)
	if err != nil {
		t.Fatalf("Aggregate() error = %v, want nil", err)
	}
	if !matrix.IsEmpty() {
		t.Errorf("matrix.IsEmpty() = false, want true")
	}
	if len(matrix.Rounds) != 0 || len(matrix.Drivers) != 0 {
		t.Errorf("empty season produced %d rounds, %d drivers", len(matrix.Rounds), len(matrix.Drivers))
	}
}

func TestAggregateTotalsAndOrdering(t *testing.T) {
	provider := &fakeProvider{
		schedule: []model.Event{
			event(1, "Bahrain Grand Prix", now.AddDate(0, -2, 0), model.FormatConventional),
			event(2, "Saudi Arabian Grand Prix", now.AddDate(0, -1, 0), model.FormatConventional),
		},
		race: map[int][]model.RaceResult{
			1: {raceResult("AAA", 25, 1), raceResult("BBB", 18, 2)},
			2: {raceResult("AAA", 18, 2)},
		},
	}

	matrix, err := NewAggregator(provider).Aggregate(context.Background(), 2024, now)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if got, want := matrix.TotalPoints["AAA"], 43.0; got != want {
		t.Errorf("TotalPoints[AAA] = %v, want %v", got, want)
	}
	if got, want := matrix.TotalPoints["BBB"], 18.0; got != want {
		t.Errorf("TotalPoints[BBB] = %v, want %v", got, want)
	}

	// ascending by total: B before A
	if matrix.Drivers[0] != "BBB" || matrix.Drivers[1] != "AAA" {
		t.Errorf("Drivers = %v, want [BBB AAA]", matrix.Drivers)
	}
	for i := 1; i < len(matrix.Drivers); i++ {
		if matrix.TotalPoints[matrix.Drivers[i-1]] > matrix.TotalPoints[matrix.Drivers[i]] {
			t.Errorf("row order not non-decreasing at %d: %v", i, matrix.Drivers)
		}
	}

	if got := matrix.Points["AAA"]; got[0] != 25 || got[1] != 18 {
		t.Errorf("Points[AAA] = %v, want [25 18]", got)
	}
	if got := matrix.Points["BBB"]; got[0] != 18 || got[1] != 0 {
		t.Errorf("Points[BBB] = %v, want [18 0]", got)
	}

	// absent from round 2: position must be N/A, never a number
	if got := matrix.Positions["BBB"][1].Label(); got != model.PositionNotAvailable {
		t.Errorf("Positions[BBB][1] = %q, want %q", got, model.PositionNotAvailable)
	}
	if got := matrix.Positions["BBB"][0].Label(); got != "2" {
		t.Errorf("Positions[BBB][0] = %q, want 2", got)
	}

	if got, want := matrix.ShortEventNames[0], "Bahrain"; got != want {
		t.Errorf("ShortEventNames[0] = %q, want %q", got, want)
	}
}

func TestAggregateSprintPoints(t *testing.T) {
	provider := &fakeProvider{
		schedule: []model.Event{
			event(1, "Chinese Grand Prix", now.AddDate(0, -2, 0), model.FormatSprintQualifying),
			event(2, "Miami Grand Prix", now.AddDate(0, -1, 0), model.FormatConventional),
		},
		race: map[int][]model.RaceResult{
			1: {raceResult("CCC", 8, 4), raceResult("DDD", 6, 5)},
			2: {raceResult("CCC", 10, 3)},
		},
		sprint: map[int][]model.RaceResult{
			1: {raceResult("CCC", 4, 5)},
			2: {raceResult("CCC", 99, 1)}, // must never be fetched
		},
	}

	matrix, err := NewAggregator(provider).Aggregate(context.Background(), 2024, now)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if got, want := matrix.Points["CCC"][0], 12.0; got != want {
		t.Errorf("sprint event points = %v, want %v", got, want)
	}
	// no sprint record for DDD: race points only
	if got, want := matrix.Points["DDD"][0], 6.0; got != want {
		t.Errorf("points without sprint record = %v, want %v", got, want)
	}
	// conventional event never contributes sprint points
	if got, want := matrix.Points["CCC"][1], 10.0; got != want {
		t.Errorf("conventional event points = %v, want %v", got, want)
	}
	if len(provider.sprintCalls) != 1 || provider.sprintCalls[0] != 1 {
		t.Errorf("sprint fetches = %v, want only round 1", provider.sprintCalls)
	}
}

func TestAggregateFailsClosed(t *testing.T) {
	fetchErr := errors.New("provider down")
	provider := &fakeProvider{
		schedule: []model.Event{
			event(1, "Bahrain Grand Prix", now.AddDate(0, -2, 0), model.FormatConventional),
			event(2, "Saudi Arabian Grand Prix", now.AddDate(0, -1, 0), model.FormatConventional),
		},
		race: map[int][]model.RaceResult{
			1: {raceResult("AAA", 25, 1)},
		},
		raceErr: map[int]error{2: fetchErr},
	}

	matrix, err := NewAggregator(provider).Aggregate(context.Background(), 2024, now)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Aggregate() error = %v, want %v", err, fetchErr)
	}
	if !matrix.IsEmpty() {
		t.Errorf("failed aggregation returned a partial matrix: %+v", matrix)
	}
}

func TestAggregateExcludesFutureRounds(t *testing.T) {
	provider := &fakeProvider{
		schedule: []model.Event{
			event(1, "Bahrain Grand Prix", now.AddDate(0, -1, 0), model.FormatConventional),
			event(2, "Spanish Grand Prix", now.AddDate(0, 1, 0), model.FormatConventional),
		},
		race: map[int][]model.RaceResult{
			1: {raceResult("AAA", 25, 1)},
			2: {raceResult("AAA", 25, 1)},
		},
	}

	matrix, err := NewAggregator(provider).Aggregate(context.Background(), 2024, now)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(matrix.Rounds) != 1 || matrix.Rounds[0] != 1 {
		t.Errorf("Rounds = %v, want [1]", matrix.Rounds)
	}
	if got, want := matrix.TotalPoints["AAA"], 25.0; got != want {
		t.Errorf("TotalPoints[AAA] = %v, want %v (future round must not count)", got, want)
	}
}

func TestManagerSyncRefreshesOnOwnTicker(t *testing.T) {
	provider := &fakeProvider{
		schedule: []model.Event{
			event(1, "Bahrain Grand Prix", now.AddDate(0, -1, 0), model.FormatConventional),
		},
		race: map[int][]model.RaceResult{
			1: {raceResult("AAA", 25, 1)},
		},
	}

	mgr := NewManager(context.Background(), NewAggregator(provider), pubsub.NewPubSub())
	if _, err := mgr.Select(context.Background(), 2024); err != nil {
		t.Fatalf("Select(2024) error = %v", err)
	}
	before := provider.scheduleCallCount()

	// the manager owns this ticker exclusively; every tick must reach it
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	exitChan := make(chan bool)
	mgr.Sync(ticker, exitChan)

	deadline := time.After(2 * time.Second)
	for provider.scheduleCallCount() < before+2 {
		select {
		case <-deadline:
			t.Fatalf("refresh ran %d times, want at least 2", provider.scheduleCallCount()-before)
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(exitChan)

	current, ok := mgr.Current()
	if !ok || current.Season != 2024 {
		t.Errorf("Current() season = %d, want 2024 after refreshes", current.Season)
	}
}

func TestManagerLastRequestWins(t *testing.T) {
	gate := make(chan struct{})
	slow := &fakeProvider{
		schedule: []model.Event{
			event(1, "Bahrain Grand Prix", now.AddDate(0, -1, 0), model.FormatConventional),
		},
		race: map[int][]model.RaceResult{
			1: {raceResult("AAA", 25, 1)},
		},
		gateSeason:   2023,
		scheduleGate: gate,
	}

	mgr := NewManager(context.Background(), NewAggregator(slow), pubsub.NewPubSub())

	staleErr := make(chan error, 1)
	go func() {
		_, err := mgr.Select(context.Background(), 2023)
		staleErr <- err
	}()

	// the second selection supersedes the first before it can finish
	time.Sleep(20 * time.Millisecond)
	if _, err := mgr.Select(context.Background(), 2024); err != nil {
		t.Fatalf("Select(2024) error = %v", err)
	}

	close(gate)
	if err := <-staleErr; !errors.Is(err, ErrStale) {
		t.Fatalf("superseded Select() error = %v, want ErrStale", err)
	}

	current, ok := mgr.Current()
	if !ok || current.Season != 2024 {
		t.Errorf("Current() season = %d, want 2024", current.Season)
	}
}
