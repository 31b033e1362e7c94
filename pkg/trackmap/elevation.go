package trackmap

import (
	"math"

	"f1dashbot/pkg/model"
)

// Profile is the elevation chart series of one lap: cumulative distance
// along the track against the elevation at that point.
type Profile struct {
	Distance  []float64 `json:"distance"`
	Elevation []float64 `json:"elevation"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Gain      float64   `json:"gain"`
}

// BuildProfile walks the telemetry trace and accumulates the 2D distance
// between consecutive samples. z carries the elevation.
func BuildProfile(points []model.TrackPoint) Profile {
	p := Profile{}
	if len(points) == 0 {
		return p
	}

	p.Distance = make([]float64, len(points))
	p.Elevation = make([]float64, len(points))
	p.Min = math.Inf(1)
	p.Max = math.Inf(-1)

	total := 0.0
	for i, point := range points {
		if i > 0 {
			dx := point.X - points[i-1].X
			dy := point.Y - points[i-1].Y
			total += math.Hypot(dx, dy)
			if climb := point.Z - points[i-1].Z; climb > 0 {
				p.Gain += climb
			}
		}
		p.Distance[i] = total
		p.Elevation[i] = point.Z
		p.Min = math.Min(p.Min, point.Z)
		p.Max = math.Max(p.Max, point.Z)
	}
	return p
}
