package trackmap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"f1dashbot/pkg/model"
)

const resourcesDir = "./resources"

type entry struct {
	points  []model.TrackPoint
	profile Profile
	svgPath string
	pngPath string
}

// Manager fetches track telemetry on demand and keeps the rendered layout
// files and elevation profiles per (season, round).
type Manager struct {
	mu        sync.Mutex
	apiDomain string
	cache     map[string]entry
}

func NewManager(domain string) *Manager {
	// create the resources dir if not exists
	if _, err := os.Stat(resourcesDir); os.IsNotExist(err) {
		os.Mkdir(resourcesDir, 0755)
	}
	return &Manager{
		apiDomain: domain,
		cache:     map[string]entry{},
	}
}

// GetLayoutSVG renders (or reuses) the layout file of a round and returns
// its path.
func (tm *Manager) GetLayoutSVG(ctx context.Context, season, round int) (string, error) {
	e, err := tm.load(ctx, season, round)
	if err != nil {
		return "", err
	}
	return e.svgPath, nil
}

// GetLayoutPNG renders (or reuses) the layout as a PNG, for chats that
// cannot embed SVG.
func (tm *Manager) GetLayoutPNG(ctx context.Context, season, round int) (string, error) {
	e, err := tm.load(ctx, season, round)
	if err != nil {
		return "", err
	}
	return e.pngPath, nil
}

// GetProfile returns the elevation profile of a round.
func (tm *Manager) GetProfile(ctx context.Context, season, round int) (Profile, error) {
	e, err := tm.load(ctx, season, round)
	if err != nil {
		return Profile{}, err
	}
	return e.profile, nil
}

func (tm *Manager) load(ctx context.Context, season, round int) (entry, error) {
	key := fmt.Sprintf("%d_%d", season, round)

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if e, ok := tm.cache[key]; ok {
		return e, nil
	}

	points, err := getTrackPoints(ctx, tm.apiDomain, season, round)
	if err != nil {
		return entry{}, err
	}

	svgPath := filepath.Join(resourcesDir, "track_"+key+".svg")
	if err := BuildLayoutSVG(svgPath, points); err != nil {
		return entry{}, err
	}
	pngPath := filepath.Join(resourcesDir, "track_"+key+".png")
	if err := BuildLayoutPNG(pngPath, points); err != nil {
		return entry{}, err
	}

	e := entry{
		points:  points,
		profile: BuildProfile(points),
		svgPath: svgPath,
		pngPath: pngPath,
	}
	tm.cache[key] = e
	return e, nil
}
