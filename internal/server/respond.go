package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	agoraerrors "github.com/mleroy/agora/internal/errors"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps an error to an HTTP status and JSON body.
// Validation errors are the caller's fault (400); everything else is
// reported as an internal failure without leaking the cause chain.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	ae, ok := err.(*agoraerrors.AgoraError)
	if !ok {
		ae = agoraerrors.InternalError("internal server error", err)
	}

	status := http.StatusInternalServerError
	detail := "internal server error"

	if ae.Category == agoraerrors.CategoryValidation {
		status = http.StatusBadRequest
		detail = ae.Message
	} else {
		s.logger.Error("request failed",
			slog.String("code", ae.Code),
			slog.Any("error", err))
	}

	s.writeJSON(w, status, ErrorResponse{
		Detail: detail,
		Code:   ae.Code,
	})
}

func (s *Server) writeNotFound(w http.ResponseWriter, detail string) {
	s.writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: detail})
}

func (s *Server) writeNotReady(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Detail: "corpus is still loading",
	})
}
