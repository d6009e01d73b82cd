// Package worker provides the HTTP client for the external stream worker,
// the process that owns camera source connections and publishes media to
// the gateway.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/camwarden/camwarden/internal/models"
)

// requestTimeout bounds every call to the worker. The worker shares a
// failure domain with neither the API server nor the database, so a hung
// call must not pin a request handler indefinitely.
const requestTimeout = 10 * time.Second

// startRequest is the worker's wire shape for stream starts.
type startRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RTSPURL  string `json:"rtsp_url"`
	Location string `json:"location"`
	Enabled  bool   `json:"enabled"`
}

// Client calls the stream worker's HTTP API.
type Client struct {
	http *resty.Client
}

// NewClient creates a worker client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout),
	}
}

// StartStream asks the worker to open the camera's source and begin
// publishing. A transport error or a non-2xx response is returned as an
// error carrying the worker's message; the caller decides what state, if
// any, to mutate.
func (c *Client) StartStream(ctx context.Context, cam models.Camera) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(startRequest{
			ID:       cam.ID,
			Name:     cam.Name,
			RTSPURL:  cam.RTSPURL,
			Location: cam.Location,
			Enabled:  cam.Enabled,
		}).
		Post("/stream/start")
	if err != nil {
		return fmt.Errorf("worker start: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("worker start: %s", resp.String())
	}
	return nil
}

// StopStream asks the worker to tear down the stream for the given camera.
func (c *Client) StopStream(ctx context.Context, cameraID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", cameraID).
		Post("/stream/stop/{id}")
	if err != nil {
		return fmt.Errorf("worker stop: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("worker stop: %s", resp.String())
	}
	return nil
}

// StreamStatus fetches the worker's status map, keyed by camera ID.
// A camera with no entry has no live stream as far as the worker knows
// (including after a worker restart that lost in-memory state).
func (c *Client) StreamStatus(ctx context.Context) (map[string]models.StreamStatus, error) {
	statuses := map[string]models.StreamStatus{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&statuses).
		Get("/stream/status")
	if err != nil {
		return nil, fmt.Errorf("worker status: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("worker status: %s", resp.String())
	}
	return statuses, nil
}
