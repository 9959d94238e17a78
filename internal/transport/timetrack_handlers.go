package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
)

func (s *Server) handleStartTracking(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}

	// The body is optional; an empty request starts without a comment.
	var req startTimeTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tt, err := s.tracks.Start(r.Context(), usr, chi.URLParam(r, "projectID"), req.Comment)
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeTrackResponse(tt))
}

func (s *Server) handleStopTracking(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}

	tt, err := s.tracks.Stop(r.Context(), usr, chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeTrackResponse(tt))
}

func (s *Server) handleCreateTimeTrack(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req createTimeTrackRequest
	if !s.decode(w, r, &req) {
		return
	}

	tt, err := s.tracks.Create(r.Context(), usr, timetrack.CreateRequest{
		ProjectID: req.ProjectID,
		StartedAt: req.StartedAt,
		StoppedAt: req.StoppedAt,
		Comment:   req.Comment,
	})
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeTrackResponse(tt))
}

func (s *Server) handleListTimeTracks(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}

	entries, err := s.tracks.GetAll(r.Context(), usr, chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}

	resp := make([]timeTrackResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, toTimeTrackResponse(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTimeTrack(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req updateTimeTrackRequest
	if !s.decode(w, r, &req) {
		return
	}

	tt, err := s.tracks.Update(r.Context(), usr, timetrack.UpdateRequest{
		ProjectID: chi.URLParam(r, "projectID"),
		ID:        chi.URLParam(r, "timetrackID"),
		StartedAt: req.StartedAt,
		StoppedAt: req.StoppedAt,
		Comment:   req.Comment,
	})
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeTrackResponse(tt))
}

func (s *Server) handleDeleteTimeTrack(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}

	err := s.tracks.Delete(r.Context(), usr, chi.URLParam(r, "projectID"), chi.URLParam(r, "timetrackID"))
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
