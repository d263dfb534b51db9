package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"shade-seat-service/internal/api/dto"
	"shade-seat-service/internal/platform/debounce"
	"shade-seat-service/internal/platform/obs"
	"shade-seat-service/internal/ports"
	"shade-seat-service/internal/services"
)

const (
	wsMaxMessageBytes = 4096
	wsWriteTimeout    = 5 * time.Second
)

// SuggestionStream serves autocomplete over a websocket. Clients send one
// {"query": ...} per keystroke; the server waits until typing pauses and
// pushes suggestions for the latest query only.
type SuggestionStream struct {
	Suggester      ports.Suggester
	Options        services.SuggestOptions
	Delay          time.Duration
	AllowedOrigins []string
}

func (h *SuggestionStream) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

// Allow same-origin requests, requests without Origin, and configured origins ("*" allows all).
func (h *SuggestionStream) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}

	zap.L().Warn("websocket: rejected origin", zap.String("origin", origin))
	return false
}

type suggestSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu       sync.Mutex
	latest   uint64
	inFlight context.CancelFunc
}

func (h *SuggestionStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := h.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageBytes)

	ctx, cancel := context.WithCancel(obs.WithRequestID(context.Background(), obs.RequestID(r.Context())))
	defer cancel()

	delay := h.Delay
	if delay <= 0 {
		delay = 350 * time.Millisecond
	}
	deb := debounce.New(delay)
	defer deb.Stop()

	s := &suggestSession{conn: conn}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg dto.SuggestQuery
		if err := json.Unmarshal(data, &msg); err != nil {
			deb.Cancel()
			s.supersede()
			s.write(dto.SuggestionsResponse{Suggestions: []dto.PlaceResponse{}, Error: "invalid message"})
			continue
		}

		// A cleared field empties the list at once and drops any pending lookup.
		if strings.TrimSpace(msg.Query) == "" {
			deb.Cancel()
			s.supersede()
			s.write(dto.SuggestionsResponse{Query: msg.Query, Suggestions: []dto.PlaceResponse{}})
			continue
		}

		seq := s.supersede()
		query := msg.Query
		deb.Trigger(func() { h.lookup(ctx, s, seq, query) })
	}
}

// supersede marks every earlier query stale, cancels the lookup in flight and returns the new sequence number.
func (s *suggestSession) supersede() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	if s.inFlight != nil {
		s.inFlight()
		s.inFlight = nil
	}
	return s.latest
}

func (h *SuggestionStream) lookup(ctx context.Context, s *suggestSession, seq uint64, query string) {
	lookupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if seq != s.latest {
		s.mu.Unlock()
		return
	}
	if s.inFlight != nil {
		s.inFlight()
	}
	s.inFlight = cancel
	s.mu.Unlock()

	places, err := services.Suggest(lookupCtx, query, h.Suggester, h.Options)

	s.mu.Lock()
	stale := seq != s.latest
	s.mu.Unlock()
	if stale || ctx.Err() != nil {
		return
	}

	res := dto.SuggestionsResponse{Query: query, Suggestions: dto.NewPlaceResponses(places)}
	if err != nil {
		zap.L().Warn("suggest failed", zap.String("query", query), zap.Error(err))
		res.Error = "suggestions are temporarily unavailable"
	}
	s.write(res)
}

func (s *suggestSession) write(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := s.conn.WriteJSON(v); err != nil {
		zap.L().Debug("websocket write failed", zap.Error(err))
	}
}
