package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps domain errors onto HTTP status codes. Anything
// unrecognized is a 500 with a generic body; details stay in the log.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var nameConflict *project.NameConflictError
	var alreadyTracking *timetrack.AlreadyTrackingError
	var noTracking *timetrack.NoTrackingError

	switch {
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, timetrack.ErrProjectNotFound),
		errors.Is(err, timetrack.ErrNotFound),
		errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &nameConflict),
		errors.As(err, &alreadyTracking),
		errors.Is(err, project.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &noTracking),
		errors.Is(err, project.ErrTooManyProjects),
		errors.Is(err, project.ErrInvalidName),
		errors.Is(err, timetrack.ErrInvalidTimeRange),
		errors.Is(err, timetrack.ErrNotFinished),
		errors.Is(err, timetrack.ErrInvalidComment),
		errors.Is(err, user.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
