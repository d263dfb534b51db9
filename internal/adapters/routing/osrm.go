package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/httpclient"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/platform/obs"
)

const DefaultOSRMURL = "https://router.project-osrm.org"

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// OSRMRouteProvider implements ports.RouteProvider using the OSRM
// /route/v1 service. Only the route summary is requested (overview=false).
type OSRMRouteProvider struct {
	client  *httpclient.Client
	baseURL string
	profile string
	metrics *metrics.Metrics
}

type OSRMOptions struct {
	BaseURL   string
	Profile   string
	UserAgent string
	Timeout   time.Duration
	Metrics   *metrics.Metrics
}

func NewOSRMRouteProvider(opts OSRMOptions) (*OSRMRouteProvider, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultOSRMURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("osrm: parse base url: %w", err)
	}

	profile := strings.TrimSpace(opts.Profile)
	if profile == "" {
		profile = "driving"
	}
	if strings.ContainsAny(profile, "/?#") {
		return nil, fmt.Errorf("osrm: invalid profile %q", profile)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OSRMRouteProvider{
		client:  httpclient.New(timeout, opts.UserAgent),
		baseURL: base,
		profile: profile,
		metrics: opts.Metrics,
	}, nil
}

// SetHTTPClient replaces the underlying client; used by tests.
func (o *OSRMRouteProvider) SetHTTPClient(c *httpclient.Client) { o.client = c }

// Route retrieves road distance and duration from origin to destination.
func (o *OSRMRouteProvider) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.RouteInfo, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if err := origin.Validate(); err != nil {
		return domain.RouteInfo{}, fmt.Errorf("route origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return domain.RouteInfo{}, fmt.Errorf("route destination: %w", err)
	}

	// OSRM expects lon,lat pairs separated by ';'.
	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%s;%s?overview=false",
		o.baseURL, o.profile, lonLat(origin), lonLat(destination),
	)

	var decoded routeResponse
	if err := o.client.GetJSON(ctx, endpoint, &decoded); err != nil {
		// OSRM answers 400 with a JSON code (NoRoute, NoSegment) for unroutable pairs.
		var se *httpclient.StatusError
		if errors.As(err, &se) && se.Code == http.StatusBadRequest &&
			(strings.Contains(se.Body, "NoRoute") || strings.Contains(se.Body, "NoSegment")) {
			return domain.RouteInfo{}, fmt.Errorf("route %s -> %s: %w", origin, destination, domain.ErrNoRoute)
		}
		o.metrics.UpstreamError("osrm")
		return domain.RouteInfo{}, fmt.Errorf("route %s -> %s: %w", origin, destination, err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return domain.RouteInfo{}, fmt.Errorf(
			"route %s -> %s: code=%q %s: %w",
			origin, destination, decoded.Code, decoded.Message, domain.ErrNoRoute,
		)
	}

	r := decoded.Routes[0]
	return domain.RouteInfo{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}, nil
}

func lonLat(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}
