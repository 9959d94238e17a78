package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

// Server wires the REST handlers.
type Server struct {
	projects *project.Service
	tracks   *timetrack.Service
	users    *user.Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewRouter creates the HTTP router. Everything except /health requires an
// API key; the /users surface additionally requires the admin role.
func NewRouter(projects *project.Service, tracks *timetrack.Service, users *user.Service, resolver UserResolver, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		projects: projects,
		tracks:   tracks,
		users:    users,
		logger:   logger,
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(resolver))

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", srv.handleCreateProject)
			r.Get("/", srv.handleListProjects)
			r.Get("/{projectID}", srv.handleGetProject)
			r.Put("/{projectID}", srv.handleRenameProject)
			r.Delete("/{projectID}", srv.handleDeleteProject)
		})

		r.Route("/timetrack", func(r chi.Router) {
			r.Post("/", srv.handleCreateTimeTrack)
			r.Post("/{projectID}/start", srv.handleStartTracking)
			r.Post("/{projectID}/stop", srv.handleStopTracking)
			r.Get("/{projectID}", srv.handleListTimeTracks)
			r.Put("/{projectID}/{timetrackID}", srv.handleUpdateTimeTrack)
			r.Delete("/{projectID}/{timetrackID}", srv.handleDeleteTimeTrack)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(AdminOnly)
			r.Post("/", srv.handleCreateUser)
			r.Get("/", srv.handleListUsers)
			r.Get("/{userID}", srv.handleGetUser)
			r.Delete("/{userID}", srv.handleDeleteUser)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// decode parses and validates a JSON request body. A false return means the
// response was already written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func requestUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	usr, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return usr, true
}
