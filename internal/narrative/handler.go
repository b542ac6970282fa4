package narrative

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ailutions/ailutions-site/internal/submissions"
)

const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgConfigError      = "Server configuration error."
	msgGenerateFailed   = "Failed to generate the report."
)

// Handler serves POST /api/generate-report. Every failure after the request
// has been accepted is reported with a generic message; the detail goes to
// the log only.
type Handler struct {
	Gateway *Gateway
	// Log is optional. A failed append is logged and never fails the request.
	Log submissions.Log
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if missing := req.Missing(); len(missing) > 0 {
		verb := "is"
		if len(missing) > 1 {
			verb = "are"
		}
		writeError(w, http.StatusBadRequest, strings.Join(missing, " and ")+" "+verb+" required")
		return
	}

	if !h.Gateway.Configured() {
		log.Error().Msg("narrative: no model provider configured; set a provider API key")
		writeError(w, http.StatusInternalServerError, msgConfigError)
		return
	}

	rep, err := h.Gateway.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, msgConfigError)
			return
		}
		log.Error().Err(err).Str("stage", req.Results.MaturityStage.Name).Msg("narrative generation failed")
		writeError(w, http.StatusInternalServerError, msgGenerateFailed)
		return
	}

	if h.Log != nil {
		if _, err := h.Log.Append(r.Context(), submissions.KindNarrative, map[string]any{
			"results":   req.Results,
			"narrative": rep,
		}); err != nil {
			log.Warn().Err(err).Msg("record narrative report")
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

// writeJSON encodes before writing the header so an unencodable payload
// becomes a 500 rather than an empty success.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg("encode response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
