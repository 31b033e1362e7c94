package standings

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"f1dashbot/pkg/caster"
	"f1dashbot/pkg/model"
	"f1dashbot/pkg/pubsub"
)

// ErrStale marks an aggregation that lost to a newer season selection. Its
// result has been discarded and must not be shown.
var ErrStale = errors.New("standings: selection superseded")

// Manager owns the currently displayed standings matrix. Every season
// selection runs a fresh aggregation; a generation counter makes sure only
// the latest selection is ever applied (last-request-wins).
type Manager struct {
	ctx          context.Context
	mu           sync.Mutex
	gen          uint64
	agg          *Aggregator
	current      Matrix
	hasCurrent   bool
	pubsubMgr    *pubsub.PubSub
	matrixCaster caster.ChannelCaster[Matrix]
}

func NewManager(ctx context.Context, agg *Aggregator, pubsubMgr *pubsub.PubSub) *Manager {
	return &Manager{
		ctx:          ctx,
		agg:          agg,
		pubsubMgr:    pubsubMgr,
		matrixCaster: caster.JSONChannelCaster[Matrix]{},
	}
}

// Select aggregates a season and makes it the displayed matrix. If another
// selection starts before this one finishes, the stale result is dropped
// and ErrStale is returned.
func (m *Manager) Select(ctx context.Context, season int) (Matrix, error) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	matrix, err := m.agg.Aggregate(ctx, season, time.Now())
	if err != nil {
		return Matrix{}, err
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return Matrix{}, ErrStale
	}
	prev, had := m.current, m.hasCurrent
	m.current = matrix
	m.hasCurrent = true
	m.mu.Unlock()

	m.announce(prev, had, matrix)
	return matrix, nil
}

// Current returns the displayed matrix, if any selection completed yet.
func (m *Manager) Current() (Matrix, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.hasCurrent
}

// Sync re-aggregates the displayed season on every tick so newly finished
// rounds show up without a user action.
func (m *Manager) Sync(ticker *time.Ticker, exitChan chan bool) {
	go func() {
		for {
			select {
			case <-exitChan:
				return
			case t := <-ticker.C:
				m.refresh(t)
			}
		}
	}()
}

func (m *Manager) refresh(t time.Time) {
	m.mu.Lock()
	season, has := m.current.Season, m.hasCurrent
	m.mu.Unlock()
	if !has {
		return
	}
	log.Println("Refreshing standings at: ", t)
	if _, err := m.Select(m.ctx, season); err != nil && !errors.Is(err, ErrStale) {
		log.Printf("Error refreshing standings for season %d: %s", season, err.Error())
	}
}

// announce publishes the applied matrix and, on a refresh of the same
// season, a round-finished event for each newly completed round.
func (m *Manager) announce(prev Matrix, had bool, matrix Matrix) {
	payload, err := m.matrixCaster.To(matrix)
	if err != nil {
		log.Printf("Error casting standings to json: %s", err.Error())
	} else {
		m.pubsubMgr.Publish(pubsub.StandingsTopic, payload)
	}

	if !had || prev.Season != matrix.Season {
		return
	}
	for i, round := range matrix.Rounds {
		if _, known := prev.RoundIndex(round); known {
			continue
		}
		pubsub.RoundFinishedPubSub.Publish(pubsub.RoundFinishedTopic, model.RoundFinished{
			Season:    matrix.Season,
			Round:     round,
			EventName: matrix.EventNames[i],
			Sprint:    matrix.SprintFlags[i],
		})
	}
}
