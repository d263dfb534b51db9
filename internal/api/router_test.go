package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shade-seat-service/internal/adapters/geocode"
	"shade-seat-service/internal/adapters/routing"
	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/services"
)

var (
	mangaluru = domain.Place{PlaceID: 1, Name: "Mangaluru", Coordinates: domain.Coordinates{Lat: 12.9141, Lon: 74.8560}}
	bengaluru = domain.Place{PlaceID: 2, Name: "Bengaluru", Coordinates: domain.Coordinates{Lat: 12.9716, Lon: 77.5946}}
	udupi     = domain.Place{PlaceID: 3, Name: "Udupi", Coordinates: domain.Coordinates{Lat: 13.3409, Lon: 74.7421}}
)

type testEnv struct {
	handler  http.Handler
	geocoder *geocode.MockGeocoder
	routes   *routing.MockRouteProvider
	registry *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	g := geocode.NewMockGeocoder(mangaluru, bengaluru, udupi,
		domain.Place{Name: "Mangaluru Central"}, domain.Place{Name: "Mangaluru Junction"})
	rp := routing.NewMockRouteProvider([]routing.MockPair{
		{From: mangaluru.Coordinates, To: bengaluru.Coordinates, Meters: 352_440, Seconds: 6.5 * 3600},
		{From: udupi.Coordinates, To: mangaluru.Coordinates, Meters: 58_000, Seconds: 75 * 60},
	})
	reg := prometheus.NewRegistry()

	h := NewRouter(Deps{
		Lookup:       g,
		Router:       rp,
		Location:     ist,
		Suggest:      services.SuggestOptions{MinChars: 3, Limit: 5},
		SuggestDelay: 80 * time.Millisecond,
		Metrics:      metrics.New(reg),
		Gatherer:     reg,
		// 09:30 IST
		Now: func() time.Time { return time.Date(2026, 4, 10, 4, 0, 0, 0, time.UTC) },
	})
	return &testEnv{handler: h, geocoder: g, routes: rp, registry: reg}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = env.do(t, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestCreateRecommendation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/recommendations", `{"from":"Mangaluru","to":"Bengaluru"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Either", body["side"])
	assert.Equal(t, "The sun will be mostly behind you. Both sides should be comfortable.", body["explanation"])
	assert.Equal(t, "East", body["heading"])
	assert.Equal(t, "morning", body["time_of_day"])
	assert.Equal(t, float64(9), body["local_hour"])
	assert.Equal(t, 352.4, body["distance_km"])
	assert.Equal(t, "6 h 30 min", body["duration_text"])
	assert.Equal(t, "2026-04-10T16:00:00+05:30", body["arrive_at"])

	n, err := env.registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range n {
		names[mf.GetName()] = true
	}
	assert.True(t, names["shadeseat_recommendations_total"])
	assert.True(t, names["shadeseat_requests_total"])
}

func TestCreateRecommendationWithSelectionAndDepartAt(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"from": "Udupi", "from_selected_name": "Udupi", "from_coords": {"lat": 13.3409, "lon": 74.7421},
		"to": "Mangaluru",
		"depart_at": "2026-04-10T15:00:00+05:30"
	}`
	rec := env.do(t, http.MethodPost, "/api/recommendations", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode(t, rec)
	// Southbound in the afternoon: the sun is in the west, so the left side is shaded.
	assert.Equal(t, "Left", res["side"])
	assert.Equal(t, "South", res["heading"])
	assert.Equal(t, "1 h 15 min", res["duration_text"])
	assert.Zero(t, env.geocoder.Calls("Udupi"))
}

func TestCreateRecommendationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
		wantMsg    string
		failQuery  string
	}{
		{
			name:       "malformed json",
			body:       `{"from":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing to",
			body:       `{"from":"Mangaluru"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "selection without coordinates",
			body:       `{"from":"Mangaluru","to":"Udupi","from_selected_name":"Mangaluru"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "out of range coordinates",
			body:       `{"from":"X","to":"Udupi","from_selected_name":"X","from_coords":{"lat":95,"lon":0}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown place",
			body:       `{"from":"Atlantis","to":"Udupi"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "from",
			wantMsg:    `Could not find location: "Atlantis". Please select from suggestions.`,
		},
		{
			name:       "same place",
			body:       `{"from":"Udupi","to":"Udupi"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Your 'From' and 'To' locations cannot be the same.",
		},
		{
			name:       "no route",
			body:       `{"from":"Bengaluru","to":"Udupi"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "route",
			wantMsg:    "Could not calculate the travel route. Please try different locations.",
		},
		{
			name:       "geocoder unreachable",
			body:       `{"from":"Mangaluru","to":"Udupi"}`,
			failQuery:  "udupi",
			wantStatus: http.StatusBadGateway,
			wantField:  "to",
			wantMsg:    `Could not find location: "Udupi". Please select from suggestions.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.failQuery != "" {
				env.geocoder.Fail[tt.failQuery] = errors.New("connection reset")
			}

			rec := env.do(t, http.MethodPost, "/api/recommendations", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decode(t, rec)
			assert.NotEmpty(t, body["status"])
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, body["field"])
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestValidationMessagesUseJSONNames(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bearing", `{"origin":{"lat":12.9},"destination":{"lat":13,"lon":74}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	validation, ok := body["validation"].([]any)
	require.True(t, ok, rec.Body.String())
	require.Len(t, validation, 1)
	assert.Equal(t, "lon is a required field", validation[0])
}

func TestBearingEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bearing", `{"origin":{"lat":0,"lon":0},"destination":{"lat":1,"lon":0}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.InDelta(t, 0, body["bearing_degrees"], 1e-9)
	assert.Equal(t, "North", body["heading"])
	assert.Equal(t, "north-south", body["axis"])
	assert.NotContains(t, body, "recommendation")

	rec = env.do(t, http.MethodPost, "/api/bearing", `{"origin":{"lat":0,"lon":0},"destination":{"lat":0,"lon":1},"hour":15}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.InDelta(t, 90, body["bearing_degrees"], 1e-9)
	assert.Equal(t, "afternoon", body["time_of_day"])
	assert.Equal(t, "Both", body["recommendation"].(map[string]any)["side"])

	rec = env.do(t, http.MethodPost, "/api/bearing", `{"origin":{"lat":0,"lon":0},"destination":{"lat":0,"lon":1},"hour":24}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/suggestions?q=mangaluru", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "mangaluru", body["query"])
	assert.Len(t, body["suggestions"], 3)

	rec = env.do(t, http.MethodGet, "/api/suggestions?q=ma", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["suggestions"])
	assert.Zero(t, env.geocoder.SuggestCalls("ma"))
}

func TestSuggestionsEndpointUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.geocoder.Fail["udupi"] = errors.New("connection reset")

	rec := env.do(t, http.MethodGet, "/api/suggestions?q=udupi", "")
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "udupi", body["query"])
	suggestions, ok := body["suggestions"].([]any)
	require.True(t, ok, rec.Body.String())
	assert.Empty(t, suggestions)
	assert.NotEmpty(t, body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shadeseat_requests_total{method="GET",route="/health",status="200"} 1`)
}
