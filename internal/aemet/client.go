package aemet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// HTTPClient is the outbound HTTP seam, satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is the error envelope AEMET returns in place of data. The API
// reports failures as JSON bodies with an 'estado' code and a human
// readable 'descripcion', usually alongside an HTTP 200.
type APIError struct {
	Estado      int
	Descripcion string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aemet: estado %d: %s", e.Estado, e.Descripcion)
}

// envelope is the first-step response of every OpenData endpoint: a pair
// of follow-up URLs for the data and its metadata. None of the fields is
// reliably populated upstream, so all of them decode as optional.
type envelope struct {
	Descripcion string `json:"descripcion"`
	Estado      *int   `json:"estado"`
	Datos       string `json:"datos"`
	Metadatos   string `json:"metadatos"`
}

// Config carries the tunables for talking to the OpenData API.
type Config struct {
	Key          string
	BaseURL      string
	RequestDelay time.Duration
	MaxRetries   uint64
	RetryBackoff time.Duration
}

// Client fetches datasets from the AEMET OpenData API. Every dataset is
// retrieved in two steps: resolve the endpoint to an envelope, then fetch
// the payload from the envelope's 'datos' (or 'metadatos') URL.
type Client struct {
	cfg    Config
	http   HTTPClient
	logger zerolog.Logger
}

func NewClient(cfg Config, httpClient HTTPClient, logger zerolog.Logger) *Client {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	logger = logger.With().Str("component", "AemetClient").Logger()
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// resolve fetches the endpoint envelope, retrying on rate limiting and
// upstream 5xx estados.
func (c *Client) resolve(ctx context.Context, path string) (envelope, error) {
	url := c.cfg.BaseURL + path + "?api_key=" + c.cfg.Key

	var env envelope
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewConstant(c.cfg.RetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		e, fetchErr := c.fetchEnvelope(ctx, url)
		if fetchErr != nil {
			var apiErr *APIError
			if errors.As(fetchErr, &apiErr) && transient(apiErr.Estado) {
				c.logger.Warn().
					Ctx(ctx).
					Int("estado", apiErr.Estado).
					Str("path", path).
					Msg("transient API error, will retry")
				return retry.RetryableError(fetchErr)
			}
			return fetchErr
		}
		env = e
		return nil
	})
	if err != nil {
		return envelope{}, err
	}
	return env, nil
}

func (c *Client) fetchEnvelope(ctx context.Context, url string) (envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return envelope{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer c.closeBody(resp)

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// No JSON body at all; fall back to the transport status. Rate
		// limits and gateway errors sometimes arrive as bare HTTP
		// responses, so those keep their retry semantics.
		if resp.StatusCode != http.StatusOK {
			return envelope{}, &APIError{Estado: resp.StatusCode, Descripcion: resp.Status}
		}
		return envelope{}, fmt.Errorf("aemet: decode envelope: %w", err)
	}

	// 'estado' is not reliably present. When it is missing the envelope is
	// still usable as long as it carries a data URL; only an explicit
	// non-200 estado is an upstream failure.
	if env.Estado != nil && *env.Estado != http.StatusOK {
		return envelope{}, &APIError{Estado: *env.Estado, Descripcion: env.Descripcion}
	}
	if env.Datos == "" {
		return envelope{}, fmt.Errorf("aemet: envelope has no datos URL (descripcion: %q)", env.Descripcion)
	}
	return env, nil
}

// getJSON fetches a follow-up URL after the configured inter-request
// delay and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	if err := c.pause(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("aemet: data fetch status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("aemet: decode data: %w", err)
	}
	return nil
}

// FetchData resolves an endpoint and decodes its data payload into v.
func (c *Client) FetchData(ctx context.Context, path string, v any) error {
	start := time.Now()
	env, err := c.resolve(ctx, path)
	if err != nil {
		return err
	}
	if err := c.getJSON(ctx, env.Datos, v); err != nil {
		return err
	}
	c.logger.Debug().
		Ctx(ctx).
		Str("path", path).
		Dur("duration", time.Since(start)).
		Msg("fetched dataset")
	return nil
}

// FetchMetadata resolves an endpoint and decodes its metadata payload into v.
func (c *Client) FetchMetadata(ctx context.Context, path string, v any) error {
	env, err := c.resolve(ctx, path)
	if err != nil {
		return err
	}
	if env.Metadatos == "" {
		return fmt.Errorf("aemet: envelope has no metadatos URL (descripcion: %q)", env.Descripcion)
	}
	return c.getJSON(ctx, env.Metadatos, v)
}

// pause enforces the minimum delay between data requests so the API does
// not rate-limit us away.
func (c *Client) pause(ctx context.Context) error {
	if c.cfg.RequestDelay <= 0 {
		return nil
	}
	t := time.NewTimer(c.cfg.RequestDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		c.logger.Error().Err(cerr).Msg("failed to close response body")
	}
}

func transient(estado int) bool {
	return estado == http.StatusTooManyRequests || estado >= http.StatusInternalServerError
}
