package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/KirkDiggler/lenslink/internal/backup"
	"github.com/KirkDiggler/lenslink/internal/calendar"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/concept"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	"github.com/golang/glog"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	var verr models.ValidationError
	switch {
	case errors.Is(err, schedule.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, schedule.ErrConfirmationRequired),
		errors.Is(err, schedule.ErrImportNotConfirmed):
		writeError(w, http.StatusPreconditionRequired, err.Error())
	case errors.As(err, &verr),
		errors.Is(err, concept.ErrMissingTitleOrLocation),
		errors.Is(err, backup.ErrNotAnArray),
		errors.Is(err, backup.ErrInvalidBackup),
		errors.Is(err, calendar.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		glog.Errorf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// clientKey identifies the caller for rate limiting
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

// glogWriter feeds gorilla access logs and recovered panics into glog
type glogWriter struct{}

func (glogWriter) Write(p []byte) (int, error) {
	glog.V(1).Info(string(p))
	return len(p), nil
}

func (glogWriter) Println(v ...interface{}) {
	glog.Error(v...)
}
