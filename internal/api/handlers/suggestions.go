package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"shade-seat-service/internal/api/dto"
	"shade-seat-service/internal/ports"
	"shade-seat-service/internal/services"
)

type SuggestionHandler struct {
	Suggester ports.Suggester
	Options   services.SuggestOptions
}

// List returns autocomplete candidates for ?q=.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	places, err := services.Suggest(r.Context(), q, h.Suggester, h.Options)
	if err != nil {
		zap.L().Warn("suggest failed", zap.String("query", q), zap.Error(err))
		writeJSON(w, r, http.StatusBadGateway, dto.SuggestionsResponse{
			Query:       q,
			Suggestions: []dto.PlaceResponse{},
			Error:       "suggestions are temporarily unavailable",
		})
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SuggestionsResponse{
		Query:       q,
		Suggestions: dto.NewPlaceResponses(places),
	})
}
