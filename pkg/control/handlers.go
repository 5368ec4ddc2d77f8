package control

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/surface-dev/surface/pkg/host"
	"github.com/surface-dev/surface/pkg/props"
	"github.com/surface-dev/surface/pkg/registry"
)

// openSessionResponse is the body returned by POST /v1/sessions.
type openSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// registerRequest is the body accepted by POST .../components.
// Component and PropsSchema are opaque JSON documents; the server
// stores them unexamined.
type registerRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Component   json.RawMessage `json:"component,omitempty"`
	Props       props.Map       `json:"props"`
	PropsSchema json.RawMessage `json:"propsSchema,omitempty"`
}

// registerResponse is the body returned for a registration.
type registerResponse struct {
	ID string `json:"id"`
}

// componentResponse is the wire form of a registry entry.
type componentResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Component    json.RawMessage `json:"component,omitempty"`
	Props        props.Map       `json:"props"`
	PropsSchema  json.RawMessage `json:"propsSchema,omitempty"`
	RegisteredAt time.Time       `json:"registeredAt"`
}

// updateResponse carries the registry's literal status string.
type updateResponse struct {
	Status string `json:"status"`
}

// rawOrNil returns the stored opaque handle if it is raw JSON.
// Entries registered in-process may hold arbitrary Go values; those
// are not representable on the wire and are omitted.
func rawOrNil(v any) json.RawMessage {
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	return nil
}

func entryToResponse(e registry.Entry) componentResponse {
	return componentResponse{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Component:    rawOrNil(e.Component),
		Props:        e.Props,
		PropsSchema:  rawOrNil(e.PropsSchema),
		RegisteredAt: e.RegisteredAt,
	}
}

// decodeBody decodes a JSON request body into v with the configured
// size cap.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.host.Count(),
	})
}

func (s *Server) handleOpenSession(w http.ResponseWriter, _ *http.Request) {
	sess, err := s.host.Open()
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, host.ErrMaxSessions) {
			code = http.StatusTooManyRequests
		}
		writeError(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, openSessionResponse{SessionID: sess.ID})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := s.host.Close(sid); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}

	var req registerRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	var schema any
	if len(req.PropsSchema) > 0 {
		schema = req.PropsSchema
	}
	var component any
	if len(req.Component) > 0 {
		component = req.Component
	}

	id := sess.Registry.Register(req.Name, req.Description, component, req.Props, schema)
	writeJSON(w, http.StatusCreated, registerResponse{ID: id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}

	entries := sess.Registry.List()
	out := make([]componentResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}

	cid := chi.URLParam(r, "cid")
	e, ok := sess.Registry.Get(cid)
	if !ok {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(e))
}

func (s *Server) handleRemoveComponent(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}

	cid := chi.URLParam(r, "cid")
	if !sess.Registry.Remove(cid) {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}

	var partial props.Map
	if !s.decodeBody(w, r, &partial) {
		return
	}

	cid := chi.URLParam(r, "cid")
	status := sess.Registry.Update(cid, partial)
	s.metrics.recordUpdate(status)

	// The body always carries the registry's literal status; the HTTP
	// code just mirrors its class.
	code := http.StatusOK
	if status.IsError() {
		code = http.StatusNotFound
	}
	writeJSON(w, code, updateResponse{Status: status.String()})
}
