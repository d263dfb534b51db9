// Package ors implements geocoding and routing on top of OpenRouteService.
package ors

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shade-seat-service/internal/platform/httpclient"
	"shade-seat-service/internal/platform/metrics"
)

const DefaultBaseURL = "https://api.openrouteservice.org"

// Client implements ports.PlaceLookup and ports.RouteProvider using OpenRouteService.
// Safe for concurrent use.
type Client struct {
	client  *httpclient.Client
	baseURL string
	profile string
	country string
	metrics *metrics.Metrics
}

type Options struct {
	APIKey    string
	BaseURL   string
	Profile   string
	Country   string // ISO 3166-1 alpha-2, e.g. "IN"
	UserAgent string
	Timeout   time.Duration
	Metrics   *metrics.Metrics
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("ors: parse base url: %w", err)
	}

	profile := opts.Profile
	if profile == "" {
		profile = "driving-car"
	}
	if strings.ContainsAny(profile, "/?#") {
		return nil, fmt.Errorf("ors: invalid profile %q", profile)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL: base,
		profile: profile,
		country: strings.ToUpper(opts.Country),
		metrics: opts.Metrics,
	}
	c.SetHTTPClient(httpclient.New(timeout, opts.UserAgent), opts.APIKey)
	return c, nil
}

// SetHTTPClient replaces the underlying client and attaches the API key to it.
func (c *Client) SetHTTPClient(hc *httpclient.Client, apiKey string) {
	if hc.Header == nil {
		hc.Header = make(map[string][]string)
	}
	hc.Header.Set("Authorization", apiKey)
	c.client = hc
}
