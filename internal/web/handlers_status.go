package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/halostats/uploadserver/internal/store"
	"github.com/halostats/uploadserver/internal/web/templates"
)

// healthCheckTimeout bounds the database ping in /healthz.
const healthCheckTimeout = 2 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			respondError(w, r, fmt.Errorf("database ping: %w", err), http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := templates.StatusPage(s.service.Status()).Render(r.Context(), &buf); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// handleServiceRecord returns the service record for a XUID given in
// decimal or 0x-prefixed hex.
func (s *Server) handleServiceRecord(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		http.NotFound(w, r)
		return
	}

	xuid, err := strconv.ParseUint(chi.URLParam(r, "xuid"), 0, 64)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %w", errInvalidXUID, err), http.StatusBadRequest)
		return
	}

	rec, err := s.records.Get(r.Context(), xuid)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "service record not found",
			Message: "No service record exists for this player",
			Code:    "SR001",
		})
		return
	}
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
