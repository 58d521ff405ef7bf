package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrStatus    = errors.New("unexpected status")
	ErrMalformed = errors.New("malformed response")
)

// Backend is one ranking service. Errors never escape the caches: they are
// logged and the lookup is treated as absent.
type Backend interface {
	Kind() domain.Source
	FetchRecord(ctx context.Context, id uuid.UUID, name string) (*domain.PlayerRecord, error)
	FetchModes(ctx context.Context) (map[string]domain.GameMode, error)
}

// ModeResolver maps a backend's category name to a catalog entry.
type ModeResolver interface {
	LookupFor(src domain.Source, name string) (domain.GameMode, bool)
}

type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Rate      float64
	Burst     int
	HTTP      *fasthttp.Client
}

type Client struct {
	base      string
	userAgent string
	http      *fasthttp.Client
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

func NewHTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		MaxConnsPerHost:     16,
		ReadTimeout:         constants.RecordFetchTimeout,
		WriteTimeout:        constants.RecordFetchTimeout,
		MaxIdleConnDuration: 1 * time.Minute,
	}
}

func NewClient(opts ClientOptions, logger zerolog.Logger) *Client {
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = constants.UserAgent
	}
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		base:      opts.BaseURL,
		userAgent: userAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}
}

func (c *Client) BaseURL() string {
	return c.base
}

// get performs a GET against base+endpoint and returns a copy of the body.
// 404 maps to ErrNotFound, any other non-2xx status to ErrStatus.
func (c *Client) get(ctx context.Context, endpoint string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := c.base + endpoint
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	deadline, _ := ctx.Deadline()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Debug().Err(err).Str("url", url).Msg("request failed")
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%s: %w: %d", endpoint, ErrStatus, status)
	}

	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func getJSON[T any](ctx context.Context, c *Client, endpoint string, timeout time.Duration) (*T, error) {
	body, err := c.get(ctx, endpoint, timeout)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("body", sample(body)).
			Msg("invalid JSON response")
		return nil, fmt.Errorf("%s: %w: %v", endpoint, ErrMalformed, err)
	}
	return &result, nil
}

func sample(body []byte) string {
	if len(body) > constants.BodySampleLen {
		return string(body[:constants.BodySampleLen])
	}
	return string(body)
}

// sanitize maps a missing or literal "null" string to empty.
func sanitize(s string) string {
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}
