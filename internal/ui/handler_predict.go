package ui

import (
	"net/http"

	"github.com/thep200/xsmb-analyzer/api"
)

func (h *Handler) predictParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	window, err := intParam(r, "window", maxWindow)
	if err != nil {
		h.writeError(w, r, api.CodeInvalidArgument, err.Error())
		return 0, 0, false
	}
	top, err := intParam(r, "top", maxTop)
	if err != nil {
		h.writeError(w, r, api.CodeInvalidArgument, err.Error())
		return 0, 0, false
	}
	return window, top, true
}

func (h *Handler) predictTraditional(w http.ResponseWriter, r *http.Request) {
	window, top, ok := h.predictParams(w, r)
	if !ok {
		return
	}
	respond(h, w, r, h.API.TraditionalPredict(r.Context(), window, top))
}

func (h *Handler) predictML(w http.ResponseWriter, r *http.Request) {
	window, top, ok := h.predictParams(w, r)
	if !ok {
		return
	}
	respond(h, w, r, h.API.MLPredict(r.Context(), window, top))
}
