// Package api exposes the bridge's HTTP surface via gorilla/mux. Handlers
// are thin: decode, delegate to a collaborator, and encode JSON. Validation
// failures are answered with 400 directly; a bridgeerr.NotFoundError from
// the store becomes 404.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"messagebridge/internal/bridgeerr"
	"messagebridge/internal/exclusion"
	"messagebridge/internal/extractors"
	"messagebridge/internal/logger"
	"messagebridge/internal/records"
	"messagebridge/internal/sendpipeline"
)

// Server holds the collaborators the HTTP handlers delegate to.
type Server struct {
	pipeline       *sendpipeline.Pipeline
	records        *records.Store
	exclusion      *exclusion.Engine
	storageEnabled bool
}

// NewServer builds a Server.
func NewServer(pipeline *sendpipeline.Pipeline, store *records.Store, excl *exclusion.Engine, storageEnabled bool) *Server {
	return &Server{pipeline: pipeline, records: store, exclusion: excl, storageEnabled: storageEnabled}
}

type sendRequest struct {
	Content       string `json:"content"`
	Destination   string `json:"destination"`
	CorrelationID string `json:"correlationId"`
	MessageType   string `json:"messageType"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Destination == "" {
		writeError(w, http.StatusBadRequest, "destination is required")
		return
	}

	resp := s.pipeline.Send(r.Context(), sendpipeline.Request{
		Content:       req.Content,
		Destination:   req.Destination,
		CorrelationID: req.CorrelationID,
		MessageType:   req.MessageType,
	})

	status := http.StatusOK
	if resp.Status == records.StatusExcluded {
		status = http.StatusAccepted
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleMessagesHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListStoredMessages(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.records.ListMessages(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetStoredMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, _, err := s.records.GetMessage(r.Context(), id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRepublish(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	resp, err := s.pipeline.Republish(r.Context(), id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteStoredMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.records.DeleteMessage(r.Context(), id); err != nil {
		respondStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStorageStatus(w http.ResponseWriter, r *http.Request) {
	text := "disabled"
	if s.storageEnabled {
		text = "enabled"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": text})
}

// --- exclusion rules ---

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.exclusion.ListRules())
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule exclusion.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, ok := extractors.For(rule.ExtractorType); !ok {
		writeError(w, http.StatusBadRequest, "unknown extractorType")
		return
	}
	created := s.exclusion.AddRule(rule)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rule, ok := s.exclusion.GetRule(id)
	if !ok {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var rule exclusion.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.exclusion.UpdateRule(id, rule) {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.exclusion.RemoveRule(id) {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- exclusion global IDs ---

func (s *Server) handleListGlobalIDs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.exclusion.ListGlobalIDs())
}

type globalIDRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleAddGlobalID(w http.ResponseWriter, r *http.Request) {
	var req globalIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	s.exclusion.AddGlobalID(req.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (s *Server) handleDeleteGlobalID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.exclusion.RemoveGlobalID(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- exclusion testing & stats ---

type testRequest struct {
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
}

func (s *Server) handleTestExclusion(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	result := s.exclusion.TestAgainst(req.Content, req.MessageType)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExclusionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.exclusion.Statistics())
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("api: failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func respondStoreErr(w http.ResponseWriter, err error) {
	var notFound *bridgeerr.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	logger.Error("api: store operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
