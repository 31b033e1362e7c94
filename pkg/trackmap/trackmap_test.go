package trackmap

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"f1dashbot/pkg/model"
)

func TestBuildProfile(t *testing.T) {
	points := []model.TrackPoint{
		{X: 0, Y: 0, Z: 10},
		{X: 3, Y: 4, Z: 15}, // 5 m along, +5 climb
		{X: 3, Y: 10, Z: 12}, // 6 m along, descent
		{X: 3, Y: 14, Z: 14}, // 4 m along, +2 climb
	}

	p := BuildProfile(points)

	wantDistance := []float64{0, 5, 11, 15}
	for i, want := range wantDistance {
		if math.Abs(p.Distance[i]-want) > 1e-9 {
			t.Errorf("distance[%d]: expected %f, got %f", i, want, p.Distance[i])
		}
	}
	for i := 1; i < len(p.Distance); i++ {
		if p.Distance[i] < p.Distance[i-1] {
			t.Fatalf("distance must be non-decreasing: %v", p.Distance)
		}
	}

	if p.Min != 10 || p.Max != 15 {
		t.Errorf("expected elevation range [10, 15], got [%f, %f]", p.Min, p.Max)
	}
	if math.Abs(p.Gain-7) > 1e-9 {
		t.Errorf("expected cumulative gain 7, got %f", p.Gain)
	}
}

func TestBuildProfileEmpty(t *testing.T) {
	p := BuildProfile(nil)
	if len(p.Distance) != 0 || len(p.Elevation) != 0 || p.Gain != 0 {
		t.Errorf("empty trace must yield an empty profile: %+v", p)
	}
}

func TestTrackBoundsRotatesPortrait(t *testing.T) {
	// taller than wide, should be rotated into landscape
	points := []model.TrackPoint{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 400},
		{X: 0, Y: 400},
	}

	b, err := trackBounds(points)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !b.rotate {
		t.Fatal("portrait outline must be rotated")
	}
	if b.rect.Dx() <= b.rect.Dy() {
		t.Errorf("rotated canvas must be landscape: %v", b.rect)
	}
}

func TestBuildLayoutRejectsDegenerateTraces(t *testing.T) {
	tests := []struct {
		name   string
		points []model.TrackPoint
	}{
		{"empty", nil},
		{"single point", []model.TrackPoint{{X: 1, Y: 2}}},
		{"identical points", []model.TrackPoint{{X: 1, Y: 2}, {X: 1, Y: 2}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := BuildLayoutPNG(filepath.Join(dir, "t.png"), test.points); !errors.Is(err, ErrNoTelemetry) {
				t.Errorf("BuildLayoutPNG error = %v, want ErrNoTelemetry", err)
			}
			if err := BuildLayoutSVG(filepath.Join(dir, "t.svg"), test.points); !errors.Is(err, ErrNoTelemetry) {
				t.Errorf("BuildLayoutSVG error = %v, want ErrNoTelemetry", err)
			}
		})
	}
}

func TestTrackBoundsTransformStaysOnCanvas(t *testing.T) {
	points := []model.TrackPoint{
		{X: -50, Y: 20},
		{X: 250, Y: 80},
		{X: 100, Y: 140},
	}

	b, err := trackBounds(points)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, p := range points {
		x, y := b.transform(p)
		if x < 0 || y < 0 || x > float64(b.rect.Max.X) || y > float64(b.rect.Max.Y) {
			t.Errorf("point %+v transformed off canvas: (%f, %f) in %v", p, x, y, b.rect)
		}
	}
}
