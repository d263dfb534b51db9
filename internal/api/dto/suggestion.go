package dto

// SuggestionsResponse is returned by GET /api/suggestions and pushed over
// the suggestions websocket.
type SuggestionsResponse struct {
	Query       string          `json:"query"`
	Suggestions []PlaceResponse `json:"suggestions"`
	Error       string          `json:"error,omitempty"`
}

// SuggestQuery is one keystroke update sent by a websocket client.
type SuggestQuery struct {
	Query string `json:"query"`
}
