package comicvine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"comicvault/internal/logging"
	"comicvault/internal/services"
)

const (
	// DefaultBaseURL is the public Comic Vine API root.
	DefaultBaseURL     = "https://comicvine.gamespot.com/api"
	defaultUserAgent   = "comicvault/dev"
	defaultHTTPTimeout = 30 * time.Second

	searchFields      = "id,name,start_year,publisher,count_of_issues,site_detail_url"
	volumeIssueFields = "id,issue_number,name,volume"
	issueDetailFields = "id,name,description,cover_date,store_date,person_credits,character_credits,team_credits,location_credits,story_arc_credits,image,site_detail_url"
	searchLimit       = "10"
	issuesLimit       = "100"
)

// Config describes the Comic Vine client configuration.
type Config struct {
	APIKey           string
	BaseURL          string
	UserAgent        string
	MinInterval      time.Duration
	RateLimitBackoff time.Duration
	NetworkBackoff   time.Duration
	MaxAttempts      int
	HTTPClient       *http.Client
	Logger           *slog.Logger
}

// Client wraps the Comic Vine REST API.
type Client struct {
	apiKey           string
	userAgent        string
	baseURL          *url.URL
	http             *http.Client
	limiter          *limiter
	rateLimitBackoff time.Duration
	networkBackoff   time.Duration
	maxAttempts      int
	logger           *slog.Logger
	sleep            func(context.Context, time.Duration) error
}

// New creates a Client from the supplied configuration. Zero durations and
// attempt counts fall back to the package defaults; a negative MinInterval
// disables pacing.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("comicvine: api key is required")
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("comicvine: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	interval := cfg.MinInterval
	if interval == 0 {
		interval = DefaultMinInterval
	}
	rateBackoff := cfg.RateLimitBackoff
	if rateBackoff <= 0 {
		rateBackoff = DefaultRateLimitBackoff
	}
	netBackoff := cfg.NetworkBackoff
	if netBackoff <= 0 {
		netBackoff = DefaultNetworkBackoff
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	return &Client{
		apiKey:           apiKey,
		userAgent:        userAgent,
		baseURL:          baseURL,
		http:             client,
		limiter:          newLimiter(interval),
		rateLimitBackoff: rateBackoff,
		networkBackoff:   netBackoff,
		maxAttempts:      attempts,
		logger:           logging.NewComponentLogger(cfg.Logger, "comicvine"),
		sleep:            SleepWithContext,
	}, nil
}

// SearchVolumes returns the volumes matching query, best match first. A nil
// slice with a nil error means the catalog had nothing usable.
func (c *Client) SearchVolumes(ctx context.Context, query string) ([]Volume, error) {
	if c == nil {
		return nil, errors.New("comicvine: client is nil")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("resources", "volume")
	params.Set("field_list", searchFields)
	params.Set("limit", searchLimit)
	var volumes []Volume
	found, err := c.get(ctx, "search", params, &volumes)
	if err != nil || !found || len(volumes) == 0 {
		return nil, err
	}
	return volumes, nil
}

// VolumeIssues lists the issues of a volume.
func (c *Client) VolumeIssues(ctx context.Context, volumeID int64) ([]Issue, error) {
	if c == nil {
		return nil, errors.New("comicvine: client is nil")
	}
	params := url.Values{}
	params.Set("filter", "volume:"+strconv.FormatInt(volumeID, 10))
	params.Set("field_list", volumeIssueFields)
	params.Set("limit", issuesLimit)
	var issues []Issue
	found, err := c.get(ctx, "issues", params, &issues)
	if err != nil || !found || len(issues) == 0 {
		return nil, err
	}
	return issues, nil
}

// IssueDetails fetches the extended record of a single issue.
func (c *Client) IssueDetails(ctx context.Context, issueID int64) (*IssueDetail, error) {
	if c == nil {
		return nil, errors.New("comicvine: client is nil")
	}
	params := url.Values{}
	params.Set("field_list", issueDetailFields)
	var detail IssueDetail
	found, err := c.get(ctx, issueResource(issueID), params, &detail)
	if err != nil || !found || detail.ID == 0 {
		return nil, err
	}
	return &detail, nil
}

// get performs one paced, retried API call and decodes the results field into
// out. It reports found=false with a nil error when the attempts run out or
// the payload signals a logical failure.
func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) (bool, error) {
	endpoint := c.baseURL.JoinPath(resource + "/")
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("api_key", c.apiKey)
	query.Set("format", "json")
	endpoint.RawQuery = query.Encode()

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := c.limiter.wait(ctx); err != nil {
			return false, err
		}
		env, status, err := c.do(ctx, endpoint.String())
		switch {
		case err != nil && ctx.Err() != nil:
			return false, ctx.Err()
		case err != nil && errors.Is(err, errDecode):
			return false, services.Wrap(services.ErrExternalService, "comicvine", resource, "decode response", err)
		case err != nil && errors.Is(err, errRequest):
			return false, services.Wrap(services.ErrValidation, "comicvine", resource, "build request", err)
		case status == StatusRateLimited:
			backoff := c.rateLimitBackoff * time.Duration(1<<uint(attempt))
			c.logRetry(ctx, resource, "comicvine rate limited, backing off", "comicvine_rate_limited", backoff, attempt, nil)
			if err := c.sleep(ctx, backoff); err != nil {
				return false, err
			}
			continue
		case err != nil || status < 200 || status > 299:
			if err == nil {
				err = fmt.Errorf("unexpected http status %d", status)
			}
			if attempt >= c.maxAttempts-1 {
				c.logger.Debug("comicvine request failed on final attempt",
					logging.String("resource", resource),
					logging.Error(err),
				)
				continue
			}
			backoff := c.networkBackoff * time.Duration(1<<uint(attempt))
			c.logRetry(ctx, resource, "comicvine request failed, retrying", "comicvine_network_retry", backoff, attempt, err)
			if err := c.sleep(ctx, backoff); err != nil {
				return false, err
			}
			continue
		}

		if env.StatusCode != statusOK {
			c.logger.Debug("comicvine reported failure",
				logging.String("resource", resource),
				logging.Int("status_code", env.StatusCode),
				logging.String("api_error", env.Error),
			)
			return false, nil
		}
		if out == nil || len(env.Results) == 0 || string(env.Results) == "null" {
			return true, nil
		}
		if err := json.Unmarshal(env.Results, out); err != nil {
			return false, services.Wrap(services.ErrExternalService, "comicvine", resource, "decode results", err)
		}
		return true, nil
	}

	logging.WarnWithContext(c.logger, "comicvine attempts exhausted", "comicvine_exhausted",
		logging.String("resource", resource),
		logging.Int("max_attempts", c.maxAttempts),
		logging.Alert("retries_exhausted"),
		logging.String(logging.FieldImpact, "lookup treated as no result"),
		logging.String(logging.FieldErrorHint, "check network connectivity and the Comic Vine API status"),
	)
	return false, nil
}

var (
	errDecode  = errors.New("decode payload")
	errRequest = errors.New("build request")
)

// do issues a single HTTP request. It returns the decoded envelope for 2xx
// responses and the status code in every case where a response arrived.
func (c *Client) do(ctx context.Context, endpoint string) (envelope, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return envelope{}, 0, fmt.Errorf("%w: %w", errRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which carries the api key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return envelope{}, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return envelope{}, resp.StatusCode, nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, resp.StatusCode, fmt.Errorf("%w: %w", errDecode, err)
	}
	return env, resp.StatusCode, nil
}

func (c *Client) logRetry(ctx context.Context, resource, msg, eventType string, backoff time.Duration, attempt int, err error) {
	attrs := []logging.Attr{
		logging.String("resource", resource),
		logging.Duration("backoff", backoff),
		logging.Int("attempt", attempt+1),
		logging.Int("max_attempts", c.maxAttempts),
		logging.String(logging.FieldEventType, eventType),
		logging.String(logging.FieldErrorHint, "wait for rate limits or check network connectivity"),
	}
	if err != nil {
		attrs = append(attrs, logging.Error(err))
	}
	attrs = append(attrs, logging.ContextFields(ctx)...)
	c.logger.Warn(msg, logging.Args(attrs...)...)
}
