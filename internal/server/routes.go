package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genomeviz/exonview/internal/diagram"
)

// createDiagramRequest is the POST /api/diagrams body.
type createDiagramRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SVG         string   `json:"svg"`
	LabelIDs    []string `json:"label_ids"`
	HolderID    string   `json:"holder_id"`
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	diagrams, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if diagrams == nil {
		diagrams = []diagram.Diagram{}
	}
	writeJSON(w, http.StatusOK, diagrams)
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req createDiagramRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 8<<20)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.SVG == "" {
		http.Error(w, "svg is required", http.StatusBadRequest)
		return
	}

	labelIDs := req.LabelIDs
	if labelIDs == nil {
		// Fall back to the legacy naming convention when the caller does
		// not supply an explicit list.
		detected, err := diagram.DetectLabels(req.SVG)
		if err != nil {
			http.Error(w, "invalid svg: "+err.Error(), http.StatusBadRequest)
			return
		}
		labelIDs = detected
	}

	d := &diagram.Diagram{
		Name:        req.Name,
		Description: req.Description,
		SVG:         req.SVG,
		LabelIDs:    labelIDs,
		HolderID:    req.HolderID,
	}
	if err := s.store.Create(r.Context(), d); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "diagram not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, diagram.ErrNotFound) {
			http.Error(w, "diagram not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.sessions.Evict(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events, err := s.store.ListEvents(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []diagram.InteractionEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleDiagramSVG serves the finalized document snapshot: labels boxed,
// overlay visibility as of the latest applied event.
func (s *Server) handleDiagramSVG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, diagram.ErrNotFound) {
			http.Error(w, "diagram not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	svg, err := sess.Render(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(svg))
}

func (s *Server) handleViewerPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "diagram not found", http.StatusNotFound)
		return
	}

	sess, err := s.sessions.Open(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	svg, err := sess.Render(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page, err := s.pages.Page(d, svg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
