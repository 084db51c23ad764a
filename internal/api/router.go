package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"messagebridge/internal/config"
	"messagebridge/internal/metrics"
)

// NewRouter builds the bridge's HTTP router, wiring every route and
// wrapping it in SecurityMiddleware.
func NewRouter(s *Server, secCfg config.SecurityConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/messages", s.handleSendMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/messages/health", s.handleMessagesHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/storage/messages", s.handleListStoredMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/storage/messages/{id}", s.handleGetStoredMessage).Methods(http.MethodGet)
	r.HandleFunc("/api/storage/messages/{id}/republish", s.handleRepublish).Methods(http.MethodPost)
	r.HandleFunc("/api/storage/messages/{id}", s.handleDeleteStoredMessage).Methods(http.MethodDelete)
	r.HandleFunc("/api/storage/status", s.handleStorageStatus).Methods(http.MethodGet)

	r.HandleFunc("/api/exclusions/rules", s.handleListRules).Methods(http.MethodGet)
	r.HandleFunc("/api/exclusions/rules", s.handleCreateRule).Methods(http.MethodPost)
	r.HandleFunc("/api/exclusions/rules/{id}", s.handleGetRule).Methods(http.MethodGet)
	r.HandleFunc("/api/exclusions/rules/{id}", s.handleUpdateRule).Methods(http.MethodPost)
	r.HandleFunc("/api/exclusions/rules/{id}", s.handleDeleteRule).Methods(http.MethodDelete)

	r.HandleFunc("/api/exclusions/ids", s.handleListGlobalIDs).Methods(http.MethodGet)
	r.HandleFunc("/api/exclusions/ids", s.handleAddGlobalID).Methods(http.MethodPost)
	r.HandleFunc("/api/exclusions/ids/{id}", s.handleDeleteGlobalID).Methods(http.MethodDelete)

	r.HandleFunc("/api/exclusions/test", s.handleTestExclusion).Methods(http.MethodPost)
	r.HandleFunc("/api/exclusions/stats", s.handleExclusionStats).Methods(http.MethodGet)

	return SecurityMiddleware(secCfg)(r)
}
