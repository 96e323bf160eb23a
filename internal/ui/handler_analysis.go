package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thep200/xsmb-analyzer/api"
)

// Các loại phân tích theo tên trên đường dẫn
const (
	KindCham     = "cham"
	KindTongLo   = "tong-lo"
	KindLoRoi    = "lo-roi"
	KindCauNgang = "cau-ngang"
	KindCauCheo  = "cau-cheo"
	KindTheoThu  = "theo-thu"
	KindLapDeu   = "lap-deu"
	KindLoChuoi  = "lo-chuoi"
)

func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	window, err := intParam(r, "window", maxWindow)
	if err != nil {
		h.writeError(w, r, api.CodeInvalidArgument, err.Error())
		return
	}

	ctx := r.Context()
	switch kind := chi.URLParam(r, "kind"); kind {
	case KindCham:
		respond(h, w, r, h.API.AnalyzeDigitTouch(ctx, window))
	case KindTongLo:
		respond(h, w, r, h.API.AnalyzeTailSum(ctx, window))
	case KindLoRoi:
		respond(h, w, r, h.API.AnalyzeRecurrence(ctx, window))
	case KindCauNgang:
		respond(h, w, r, h.API.AnalyzeHorizontalBridge(ctx, window))
	case KindCauCheo:
		respond(h, w, r, h.API.AnalyzeCrossBridge(ctx, window))
	case KindTheoThu:
		respond(h, w, r, h.API.AnalyzeWeekday(ctx, window))
	case KindLapDeu:
		respond(h, w, r, h.API.AnalyzePeriodicity(ctx, window))
	case KindLoChuoi:
		respond(h, w, r, h.API.AnalyzeRuns(ctx, window))
	default:
		h.writeError(w, r, api.CodeNotFound, fmt.Sprintf("unknown analysis %q", kind))
	}
}
