package handlers

import (
	"net/http"

	"github.com/go-chi/render"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, rd render.Renderer) {
	if err := render.Render(w, r, rd); err != nil {
		writeJSON(w, r, http.StatusInternalServerError, ErrInternal(err))
	}
}
