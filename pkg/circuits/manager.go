package circuits

import (
	"context"
	"log"
	"sync"
	"time"

	"f1dashbot/pkg/model"
)

type Provider interface {
	GetCircuits(ctx context.Context, season int) ([]model.Circuit, error)
	GetSchedule(ctx context.Context, season int) ([]model.Event, error)
}

// Manager caches the derived map markers per season. The cache is flushed
// on every sync tick so circuits flip to active as rounds complete.
type Manager struct {
	mu       sync.Mutex
	provider Provider
	markers  map[int][]Marker
}

func NewManager(provider Provider) *Manager {
	return &Manager{
		provider: provider,
		markers:  map[int][]Marker{},
	}
}

func (cm *Manager) Sync(ticker *time.Ticker, exitChan chan bool) {
	go func() {
		for {
			select {
			case <-exitChan:
				return
			case t := <-ticker.C:
				log.Println("Resetting circuit markers at: ", t)
				cm.mu.Lock()
				cm.markers = map[int][]Marker{}
				cm.mu.Unlock()
			}
		}
	}()
}

func (cm *Manager) GetMarkers(ctx context.Context, season int) ([]Marker, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if markers, ok := cm.markers[season]; ok {
		return markers, nil
	}

	circuits, err := cm.provider.GetCircuits(ctx, season)
	if err != nil {
		return nil, err
	}
	schedule, err := cm.provider.GetSchedule(ctx, season)
	if err != nil {
		return nil, err
	}

	markers := BuildMarkers(circuits, schedule, time.Now())
	cm.markers[season] = markers
	return markers, nil
}

func (cm *Manager) GetMarkerByID(ctx context.Context, season int, id string) (Marker, bool, error) {
	markers, err := cm.GetMarkers(ctx, season)
	if err != nil {
		return Marker{}, false, err
	}
	for _, marker := range markers {
		if marker.ID == id {
			return marker, true, nil
		}
	}
	return Marker{}, false, nil
}
