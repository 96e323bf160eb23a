package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thep200/xsmb-analyzer/api"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

// Giới hạn tham số truy vấn
const (
	maxLimit  = 1000
	maxWindow = 1000
	maxTop    = 100
)

// Handler manages HTTP requests
type Handler struct {
	Logger log.Logger
	Config *cfg.Config
	API    *api.XsmbAPI
}

// NewHandler creates a new handler
func NewHandler(logger log.Logger, config *cfg.Config, xsmbAPI *api.XsmbAPI) *Handler {
	return &Handler{
		Logger: logger,
		Config: config,
		API:    xsmbAPI,
	}
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/results", h.getResults)
		r.Get("/results/{date}", h.getResult)
		r.Get("/analysis/{kind}", h.getAnalysis)
		r.Get("/predict/traditional", h.predictTraditional)
		r.Get("/predict/ml", h.predictML)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, map[string]string{
		"status":  "ok",
		"name":    h.Config.App.Name,
		"version": h.Config.App.Version,
	})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func statusOf(code string) int {
	switch code {
	case api.CodeInvalidArgument:
		return http.StatusBadRequest
	case api.CodeNotFound:
		return http.StatusNotFound
	case api.CodeInsufficientData, api.CodeModelFit:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
	}
}

func (h *Handler) writeData(w http.ResponseWriter, r *http.Request, data interface{}) {
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{"data": data})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	status := statusOf(code)
	h.writeJSON(w, r, status, errorBody{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
	})
}

// respond ghi kết quả của API, lỗi được chuyển thành envelope lỗi
func respond[T any](h *Handler, w http.ResponseWriter, r *http.Request, res api.Result[T]) {
	if !res.OK() {
		h.writeError(w, r, res.Code, res.Error)
		return
	}
	h.writeData(w, r, res.Data)
}

// intParam đọc tham số số nguyên không âm, vắng mặt trả về 0
func intParam(r *http.Request, name string, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > max {
		return 0, fmt.Errorf("%s must be an integer between 0 and %d", name, max)
	}
	return v, nil
}
