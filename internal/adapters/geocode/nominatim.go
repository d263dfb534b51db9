package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/httpclient"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/platform/obs"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

type searchResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// NominatimGeocoder resolves place names with the OpenStreetMap Nominatim
// /search endpoint. It implements ports.PlaceLookup and is safe for
// concurrent use.
type NominatimGeocoder struct {
	client       *httpclient.Client
	baseURL      string
	countryCodes string
	language     string
	metrics      *metrics.Metrics
}

type NominatimOptions struct {
	BaseURL      string
	CountryCodes string
	Language     string
	UserAgent    string
	Timeout      time.Duration
	Metrics      *metrics.Metrics
}

func NewNominatimGeocoder(opts NominatimOptions) (*NominatimGeocoder, error) {
	// Nominatim's usage policy rejects anonymous clients.
	if strings.TrimSpace(opts.UserAgent) == "" {
		return nil, errors.New("nominatim: user agent is required")
	}

	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultNominatimURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("nominatim: parse base url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &NominatimGeocoder{
		client:       httpclient.New(timeout, opts.UserAgent),
		baseURL:      base,
		countryCodes: opts.CountryCodes,
		language:     opts.Language,
		metrics:      opts.Metrics,
	}, nil
}

// SetHTTPClient replaces the underlying client; used by tests.
func (n *NominatimGeocoder) SetHTTPClient(c *httpclient.Client) { n.client = c }

// Geocode returns the first Nominatim match for query.
func (n *NominatimGeocoder) Geocode(ctx context.Context, query string) (_ domain.Place, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	query = normalize(query)
	if query == "" {
		return domain.Place{}, domain.ErrEmptyLocation
	}

	places, err := n.search(ctx, query, 1)
	if err != nil {
		return domain.Place{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(places) == 0 {
		return domain.Place{}, fmt.Errorf("geocode %q: %w", query, domain.ErrPlaceNotFound)
	}

	return places[0], nil
}

// Suggest returns up to limit matches for an autocomplete query.
func (n *NominatimGeocoder) Suggest(ctx context.Context, query string, limit int) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "nominatim.Suggest")(&err)

	query = normalize(query)
	if query == "" {
		return []domain.Place{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	places, err := n.search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", query, err)
	}
	return places, nil
}

func (n *NominatimGeocoder) search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	if n.countryCodes != "" {
		q.Set("countrycodes", n.countryCodes)
	}
	if n.language != "" {
		q.Set("accept-language", n.language)
	}
	endpoint := n.baseURL + "/search?" + q.Encode()

	var decoded []searchResult
	if err := n.client.GetJSON(ctx, endpoint, &decoded); err != nil {
		n.metrics.UpstreamError("nominatim")
		return nil, err
	}

	out := make([]domain.Place, 0, len(decoded))
	for _, r := range decoded {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q for %q: %w", r.Lat, r.DisplayName, err)
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q for %q: %w", r.Lon, r.DisplayName, err)
		}

		out = append(out, domain.Place{
			PlaceID:     r.PlaceID,
			Name:        r.DisplayName,
			Coordinates: domain.Coordinates{Lat: lat, Lon: lon},
		})
	}

	return out, nil
}

// normalize ensures consistent queries and cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CacheKey is the normalized, case-folded form of a query used as a cache key.
func CacheKey(query string) string {
	return strings.ToLower(normalize(query))
}
