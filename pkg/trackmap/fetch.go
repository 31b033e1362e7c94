package trackmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"f1dashbot/pkg/model"
)

// getTrackPoints downloads the fastest-lap telemetry trace of a round: the
// x/y plane is the track outline, z is the elevation.
func getTrackPoints(ctx context.Context, domain string, season, round int) ([]model.TrackPoint, error) {
	url := fmt.Sprintf("%s/v1/track?season=%d&round=%d", domain, season, round)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching track telemetry for season %d round %d", season, round)
	}

	// Close the response body on function return
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching track telemetry for season %d round %d", resp.Status, season, round)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var points []model.TrackPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, errors.Wrapf(err, "decoding track telemetry for season %d round %d", season, round)
	}

	return points, nil
}
