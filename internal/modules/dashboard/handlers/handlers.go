// Package handlers provides HTTP and WebSocket handlers for the dashboard.
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/dashboard"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/hover"
)

// ContentTypeMsgpack selects msgpack encoding in Accept and Content-Type
const ContentTypeMsgpack = "application/msgpack"

const maxHoverBody = 1 << 20

// Handler handles dashboard requests
type Handler struct {
	service *dashboard.Service
	accept  *websocket.AcceptOptions
	log     zerolog.Logger
}

// NewHandler creates a new dashboard handler. WebSocket upgrades are accepted
// from the serving host and from hosts matching originPatterns; devMode
// accepts any origin.
func NewHandler(service *dashboard.Service, devMode bool, originPatterns []string, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		accept: &websocket.AcceptOptions{
			InsecureSkipVerify: devMode,
			OriginPatterns:     originPatterns,
		},
		log: log.With().Str("handler", "dashboard").Logger(),
	}
}

// OptionsResponse describes the selectable control values
type OptionsResponse struct {
	Periods   []domain.PeriodOption    `json:"periods" msgpack:"periods"`
	Modes     []domain.ChartMode       `json:"modes" msgpack:"modes"`
	Methods   []domain.SmoothingMethod `json:"methods" msgpack:"methods"`
	MinWindow int                      `json:"min_window" msgpack:"min_window"`
	MaxWindow int                      `json:"max_window" msgpack:"max_window"`
	Defaults  dashboard.Defaults       `json:"defaults" msgpack:"defaults"`
}

// HandleGetDashboard computes the chart and metrics for the query inputs.
// Provider failures and empty tickers produce a no-data result, not an error.
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	window, err := strconv.Atoi(strings.TrimSpace(q.Get("window")))
	if err != nil {
		window = 0
	}

	in := dashboard.Inputs{
		Ticker: q.Get("ticker"),
		Period: domain.Period(q.Get("period")),
		Mode:   domain.ChartMode(q.Get("mode")),
		Window: window,
		Method: domain.SmoothingMethod(q.Get("method")),
	}

	result, err := h.service.Compute(r.Context(), in)
	if err != nil {
		// Only a cancelled or expired request context ends up here
		h.log.Debug().Err(err).Str("ticker", in.Ticker).Msg("Dashboard request abandoned")
		h.writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	h.writeResponse(w, r, http.StatusOK, result)
}

// HandleHover formats a hovered point. An empty or null body yields the
// hover prompt.
func (h *Handler) HandleHover(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxHoverBody))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	point, err := decodeHoverPoint(body, r.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid hover point")
		return
	}

	h.writeResponse(w, r, http.StatusOK, hover.Format(point))
}

// HandleGetOptions returns the selectable periods, modes, methods and window
// bounds together with the configured defaults
func (h *Handler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, r, http.StatusOK, OptionsResponse{
		Periods:   domain.PeriodOptions,
		Modes:     []domain.ChartMode{domain.ChartModeCandlestick, domain.ChartModeLine},
		Methods:   []domain.SmoothingMethod{domain.SmoothingWilder, domain.SmoothingEMA},
		MinWindow: domain.MinWindow,
		MaxWindow: domain.MaxWindow,
		Defaults:  h.service.Defaults(),
	})
}

func decodeHoverPoint(body []byte, contentType string) (*hover.HoverPoint, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var point *hover.HoverPoint
	if strings.HasPrefix(contentType, ContentTypeMsgpack) {
		if err := msgpack.Unmarshal(body, &point); err != nil {
			return nil, err
		}
		return point, nil
	}

	if err := json.Unmarshal(trimmed, &point); err != nil {
		return nil, err
	}
	return point, nil
}

func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
}

// writeResponse writes data as msgpack when the client asks for it, JSON
// otherwise
func (h *Handler) writeResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if !wantsMsgpack(r) {
		h.writeJSON(w, status, data)
		return
	}

	payload, err := msgpack.Marshal(data)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode msgpack response")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to encode response"})
		return
	}

	w.Header().Set("Content-Type", ContentTypeMsgpack)
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to write msgpack response")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeResponse(w, r, status, map[string]string{"error": message})
}
