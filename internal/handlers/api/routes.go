package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/KirkDiggler/lenslink/internal/backup"
	"github.com/KirkDiggler/lenslink/internal/calendar"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
	"github.com/KirkDiggler/lenslink/internal/services/concept"
	"github.com/KirkDiggler/lenslink/internal/services/messaging"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

// maxBody caps request bodies; a full backup is the largest expected
const maxBody = 8 << 20

type createResponse struct {
	Session   *models.Session `json:"session"`
	Persisted bool            `json:"persisted"`
}

type deleteResponse struct {
	Persisted bool `json:"persisted"`
}

type shareResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status    cloudsync.Status `json:"status"`
	Source    cloudsync.Source `json:"source"`
	Backend   string           `json:"backend,omitempty"`
	LastError string           `json:"lastError,omitempty"`
	Count     int              `json:"count"`
	Pending   int              `json:"pending"`
	Message   string           `json:"message"`
}

type connectionRequest struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type connectionResponse struct {
	Success bool             `json:"success"`
	Kind    cloudsync.Kind   `json:"kind"`
	Message string           `json:"message"`
	Status  cloudsync.Status `json:"status"`
	Count   int              `json:"count"`
	Pending int              `json:"pending"`
}

type migrateResponse struct {
	Total    int              `json:"total"`
	Migrated int              `json:"migrated"`
	Failed   int              `json:"failed"`
	Status   cloudsync.Status `json:"status"`
}

type conceptRequest struct {
	Title            string `json:"title"`
	Location         string `json:"location"`
	PhotographerName string `json:"photographerName"`
	ModelName        string `json:"modelName"`
}

type conceptResponse struct {
	Text      string `json:"text"`
	Generated bool   `json:"generated"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listSessions reloads from the active store, then applies the date filter
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := s.schedule.Load(ctx, &schedule.LoadInput{}); err != nil {
		writeServiceError(w, err)
		return
	}

	out, err := s.schedule.ListSessions(ctx, &schedule.ListSessionsInput{Date: r.URL.Query().Get("date")})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Sessions)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var sess models.Session
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&sess); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	// Identity and creation time are assigned by the server
	sess.ID = ""
	sess.CreatedAt = 0

	out, err := s.schedule.Create(r.Context(), &schedule.CreateInput{Session: &sess})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if !out.Persisted {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, createResponse{Session: out.Session, Persisted: out.Persisted})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	out, err := s.schedule.GetSession(r.Context(), &schedule.GetSessionInput{ID: mux.Vars(r)["id"]})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Session)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	out, err := s.schedule.Delete(r.Context(), &schedule.DeleteInput{
		ID:        mux.Vars(r)["id"],
		Confirmed: confirmed(r),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if !out.Persisted {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, deleteResponse{Persisted: out.Persisted})
}

func (s *Server) shareSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	got, err := s.schedule.GetSession(ctx, &schedule.GetSessionInput{ID: mux.Vars(r)["id"]})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	msg, err := s.messaging.GetShareMessage(ctx, &messaging.GetShareMessageInput{Session: got.Session})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{Message: msg.Message})
}

func (s *Server) upcoming(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	out, err := s.schedule.Upcoming(r.Context(), &schedule.UpcomingInput{Limit: limit})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Sessions)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	out, err := s.schedule.Status(ctx, &schedule.StatusInput{})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	msg, err := s.messaging.GetStatusMessage(ctx, &messaging.GetStatusMessageInput{
		Status:  out.Status.Status,
		Backend: out.Status.Backend,
		Count:   out.Count,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:    out.Status.Status,
		Source:    out.Status.Source,
		Backend:   out.Status.Backend,
		LastError: out.Status.LastError,
		Count:     out.Count,
		Pending:   out.Status.Pending,
		Message:   msg.Message,
	})
}

// testConnection always answers 200; the diagnosis is in the body
func (s *Server) testConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	out, err := s.schedule.TestConnection(r.Context(), &schedule.TestConnectionInput{URL: req.URL, Key: req.Key})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, connectionResponse{
		Success: out.Result.Success,
		Kind:    out.Result.Kind,
		Message: out.Result.Message,
		Status:  out.Status,
		Count:   len(out.Sessions),
		Pending: out.Pending,
	})
}

func (s *Server) migrate(w http.ResponseWriter, r *http.Request) {
	out, err := s.schedule.MigrateToCloud(r.Context(), &schedule.MigrateToCloudInput{})
	if err != nil {
		if errors.Is(err, cloudsync.ErrNotConnected) || errors.Is(err, cloudsync.ErrNothingToMigrate) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, migrateResponse{
		Total:    out.Result.Total,
		Migrated: out.Result.Migrated,
		Failed:   out.Result.Failed,
		Status:   out.Status,
	})
}

func (s *Server) provision(w http.ResponseWriter, r *http.Request) {
	if err := s.schedule.Provision(r.Context(), &schedule.ProvisionInput{}); err != nil {
		if errors.Is(err, cloudsync.ErrNotConfigured) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) calendarMonth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])

	list, err := s.schedule.ListSessions(r.Context(), &schedule.ListSessionsInput{})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	grid, err := calendar.Build(year, time.Month(month), calendar.Options{
		WeekStart: s.weekStart,
		Today:     s.today(),
		Selected:  r.URL.Query().Get("selected"),
		Sessions:  list.Sessions,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) generateConcept(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(clientKey(r)) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "too many concept requests, try again shortly")
		return
	}

	var req conceptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	out, err := s.concept.GenerateConcept(r.Context(), &concept.GenerateConceptInput{
		Title:            req.Title,
		Location:         req.Location,
		PhotographerName: req.PhotographerName,
		ModelName:        req.ModelName,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conceptResponse{Text: out.Text, Generated: out.Generated})
}

func (s *Server) exportJSON(w http.ResponseWriter, r *http.Request) {
	list, err := s.schedule.ListSessions(r.Context(), &schedule.ListSessionsInput{})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := backup.ExportJSON(&buf, list.Sessions); err != nil {
		writeServiceError(w, err)
		return
	}

	name := backup.FileName(s.clock.Now().In(s.location))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		glog.Warningf("failed to write backup: %v", err)
	}
}

func (s *Server) exportICS(w http.ResponseWriter, r *http.Request) {
	list, err := s.schedule.ListSessions(r.Context(), &schedule.ListSessionsInput{})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := backup.ExportICS(&buf, list.Sessions, backup.ICSOptions{
		Location: s.location,
		Now:      s.clock.Now(),
	}); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="colabos.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		glog.Warningf("failed to write calendar: %v", err)
	}
}

// importJSON replaces the whole list; confirm=true is required
func (s *Server) importJSON(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeServiceError(w, schedule.ErrImportNotConfirmed)
		return
	}

	sessions, err := backup.ImportJSON(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out, err := s.schedule.Import(r.Context(), &schedule.ImportInput{Sessions: sessions, Confirmed: true})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{Imported: out.Imported})
}
