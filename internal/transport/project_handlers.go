package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req createProjectRequest
	if !s.decode(w, r, &req) {
		return
	}

	proj, err := s.projects.Create(r.Context(), usr, req.Name)
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(proj))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}

	projects, err := s.projects.GetAll(r.Context(), usr)
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}

	resp := make([]projectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, toProjectResponse(&projects[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}

	proj, err := s.projects.Get(r.Context(), usr, chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(proj))
}

func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req updateProjectRequest
	if !s.decode(w, r, &req) {
		return
	}

	proj, err := s.projects.Rename(r.Context(), usr, chi.URLParam(r, "projectID"), req.Name)
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(proj))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	usr, ok := requestUser(w, r)
	if !ok {
		return
	}

	if err := s.projects.Delete(r.Context(), usr, chi.URLParam(r, "projectID")); err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
