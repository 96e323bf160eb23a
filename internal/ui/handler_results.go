package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thep200/xsmb-analyzer/api"
)

// getResults trả về các ngày gần nhất, mới nhất trước
func (h *Handler) getResults(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", maxLimit)
	if err != nil {
		h.writeError(w, r, api.CodeInvalidArgument, err.Error())
		return
	}
	respond(h, w, r, h.API.RecentResults(r.Context(), limit))
}

func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.API.ResultByDate(r.Context(), chi.URLParam(r, "date")))
}
