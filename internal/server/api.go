package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	applog "github.com/elpatron68/mission-control/internal/log"
	"github.com/elpatron68/mission-control/internal/taskstore"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load()
	if err != nil {
		applog.Errorf("load tasks (request %s): %v", RequestIDFromContext(r.Context()), err)
		s.writeError(w, http.StatusInternalServerError, "Failed to load tasks")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePostTasks(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Save(body); err != nil {
		if errors.Is(err, taskstore.ErrInvalidDocument) {
			applog.Debugf("rejected task document from %s: %v", r.RemoteAddr, err)
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		applog.Errorf("save tasks (request %s): %v", RequestIDFromContext(r.Context()), err)
		s.writeError(w, http.StatusInternalServerError, "Failed to save tasks")
		return
	}
	s.saves.Append(r.RemoteAddr, RequestIDFromContext(r.Context()), len(body))
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Tasks saved"})
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", s.cfg.CORS.AllowOrigin)
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, statusResponse{Status: "error", Message: msg})
}

// writeJSON sends v with the JSON content type and the CORS origin header.
// json.RawMessage values are written verbatim.
func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	var body []byte
	if raw, ok := v.(json.RawMessage); ok {
		body = raw
	} else {
		b, err := json.Marshal(v)
		if err != nil {
			applog.Errorf("encode response: %v", err)
			code = http.StatusInternalServerError
			b = []byte(`{"status":"error","message":"Internal error"}`)
		}
		body = b
	}
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", s.cfg.CORS.AllowOrigin)
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
