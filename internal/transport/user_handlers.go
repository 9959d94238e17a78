package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req createUserRequest
	if !s.decode(w, r, &req) {
		return
	}

	usr, err := s.users.Create(r.Context(), actor, req.Name, user.Role(req.Role))
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	// The only response that ever carries the API key.
	writeJSON(w, http.StatusCreated, toUserResponse(usr))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestUser(w, r)
	if !ok {
		return
	}

	users, err := s.users.GetAll(r.Context(), actor)
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	usr, err := s.users.Get(r.Context(), chi.URLParam(r, "userID"), false)
	if err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(usr))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestUser(w, r)
	if !ok {
		return
	}

	if err := s.users.Delete(r.Context(), actor, chi.URLParam(r, "userID")); err != nil {
		writeDomainError(s.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
