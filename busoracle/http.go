package busoracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"best_route/config"
	"best_route/models"
)

const maxRetries = 2

// HTTPProvider queries a schedule API of the form
// {base}{path}?{departureParam}=...&{destinationParam}=...
// and reports a schedule when the API answers 200 with a non-empty JSON body.
type HTTPProvider struct {
	name             models.RouteLeg
	endpoint         string
	departureParam   string
	destinationParam string
	httpClient       *http.Client
	backoff          time.Duration
}

func NewHTTPProvider(cfg config.BusProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		name:             models.RouteLeg(cfg.Name),
		endpoint:         cfg.BaseURL + cfg.Path,
		departureParam:   cfg.DepartureParam,
		destinationParam: cfg.DestinationParam,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		backoff:          200 * time.Millisecond,
	}
}

// FromConfig builds the providers in configuration order.
func FromConfig(cfgs []config.BusProviderConfig) []Provider {
	providers := make([]Provider, 0, len(cfgs))
	for _, c := range cfgs {
		providers = append(providers, NewHTTPProvider(c))
	}
	return providers
}

func (p *HTTPProvider) Name() models.RouteLeg {
	return p.name
}

func (p *HTTPProvider) HasSchedule(ctx context.Context, departure, destination string) (bool, error) {
	q := url.Values{}
	q.Set(p.departureParam, departure)
	q.Set(p.destinationParam, destination)
	reqURL := p.endpoint + "?" + q.Encode()

	var found bool
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(p.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		found, err = p.fetch(ctx, reqURL)
		return err
	})
	return found, err
}

func (p *HTTPProvider) fetch(ctx context.Context, reqURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return false, retry.RetryableError(fmt.Errorf("transient status code: %d", resp.StatusCode))
	default:
		// Schedule APIs answer 404 or similar for unknown city pairs.
		return false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response body: %w", err)
	}
	return jsonTruthy(body)
}

// jsonTruthy reports whether body holds a non-empty JSON value: a non-empty
// array, object or string, true, or a non-zero number.
func jsonTruthy(body []byte) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return false, fmt.Errorf("failed to decode response JSON: %w", err)
	}

	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case float64:
		return val != 0, nil
	case string:
		return val != "", nil
	case []interface{}:
		return len(val) > 0, nil
	case map[string]interface{}:
		return len(val) > 0, nil
	}
	return false, nil
}
