// Package geocoder resolves free-text place names to coordinates using a
// Nominatim search endpoint.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"best_route/models"
	"best_route/utils"
)

// ErrUpstream marks failures of the geocoding service itself, as opposed to a
// place that simply has no match.
var ErrUpstream = errors.New("geocoding service unavailable")

const maxRetries = 2

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	backoff    time.Duration
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	return &Nominatim{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		backoff:    500 * time.Millisecond,
	}
}

// Geocode returns the coordinate of the best match for place. A place with no
// match fails with an error wrapping models.ErrNotFound.
func (n *Nominatim) Geocode(ctx context.Context, place string) (models.GeoPoint, error) {
	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", n.baseURL, url.QueryEscape(place))

	var results []searchResult
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(n.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		results, err = n.search(ctx, reqURL)
		return err
	})
	if err != nil {
		return models.GeoPoint{}, err
	}

	if len(results) == 0 {
		return models.GeoPoint{}, fmt.Errorf("location %q: %w", place, models.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("%w: bad latitude %q", ErrUpstream, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("%w: bad longitude %q", ErrUpstream, results[0].Lon)
	}
	p := models.GeoPoint{Latitude: lat, Longitude: lon}
	if !utils.ValidCoordinate(p) {
		return models.GeoPoint{}, fmt.Errorf("%w: coordinate out of range %q, %q", ErrUpstream, results[0].Lat, results[0].Lon)
	}
	return p, nil
}

func (n *Nominatim) search(ctx context.Context, reqURL string) ([]searchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy rejects requests without an identifying agent.
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("%w: %v", ErrUpstream, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, retry.RetryableError(fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode))
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUpstream, err)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	return results, nil
}
