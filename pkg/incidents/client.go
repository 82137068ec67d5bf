package incidents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/fetch"
	"github.com/wayfarer/wayfarer/pkg/geo"
)

// Client talks to the backend incident API. The backend itself is an
// external collaborator - this engine only consumes it, always through the
// resilient fetch layer.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:      baseURL,
		HTTPClient:   http.DefaultClient,
		Timeout:      fetch.DefaultTimeout,
		MaxRetries:   fetch.DefaultMaxRetries,
		InitialDelay: fetch.DefaultInitialDelay,
	}
}

type CreateRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Kind        string  `json:"type"`
	Description string  `json:"description"`

	// Minutes until the report expires
	ExpectedDuration int `json:"expectedDuration"`
}

type VoteResult struct {
	ID        int64 `json:"id" groups:"basic"`
	Upvotes   int   `json:"upvotes" groups:"basic"`
	Downvotes int   `json:"downvotes" groups:"basic"`
}

type StatusResult struct {
	ID       int64 `json:"id" groups:"basic"`
	IsActive bool  `json:"isActive" groups:"basic"`
}

func (c *Client) Create(ctx context.Context, request CreateRequest) (*Incident, error) {
	var incident Incident
	err := c.do(ctx, "POST", "/api/incident", request, &incident)
	if err != nil {
		return nil, err
	}

	return &incident, nil
}

func (c *Client) Vote(ctx context.Context, id int64, vote int) (*VoteResult, error) {
	var result VoteResult
	err := c.do(ctx, "POST", fmt.Sprintf("/api/incident/%d/vote", id), map[string]int{"vote": vote}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) SetStatus(ctx context.Context, id int64, active bool) (*StatusResult, error) {
	var result StatusResult
	err := c.do(ctx, "PATCH", fmt.Sprintf("/api/incident/%d/status", id), map[string]bool{"isActive": active}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Nearby lists incidents within radiusKm of center. The result keeps only
// active unexpired records - everything downstream (matching, rendering)
// works on that filtered view.
func (c *Client) Nearby(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]Incident, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%f", center.Latitude))
	query.Set("longitude", fmt.Sprintf("%f", center.Longitude))
	query.Set("radius", fmt.Sprintf("%f", radiusKm))

	var incidents []Incident
	err := c.do(ctx, "GET", "/api/incident/nearby?"+query.Encode(), nil, &incidents)
	if err != nil {
		return nil, err
	}

	FilterActive(&incidents, time.Now())

	return incidents, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any, result any) error {
	operation := func() (any, error) {
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			reader = bytes.NewReader(raw)
		}

		request, err := http.NewRequest(method, c.BaseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			request.Header.Set("Content-Type", "application/json")
		}

		response, err := fetch.DoWithTimeout(ctx, c.HTTPClient, request, c.Timeout)
		if err != nil {
			return nil, err
		}
		defer response.Body.Close()

		if response.StatusCode >= 400 {
			raw, _ := io.ReadAll(response.Body)
			return nil, fmt.Errorf("incident api returned %d: %s", response.StatusCode, raw)
		}

		if result != nil {
			return nil, json.NewDecoder(response.Body).Decode(result)
		}

		return nil, nil
	}

	_, err := fetch.WithRetry(ctx, operation, c.MaxRetries, c.InitialDelay)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("Incident API call failed")
	}

	return err
}
