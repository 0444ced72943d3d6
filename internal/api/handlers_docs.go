package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleManifest returns the run history for a document.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	docName := sanitizeFilename(chi.URLParam(r, "docName"))

	m, err := s.orchestrator.Loader().Read(docName)
	if err != nil {
		jsonError(w, "failed to read manifest: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if m == nil {
		jsonError(w, "no manifest for document", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}
