package server

import (
	"encoding/json"
	"net/http"
	"time"

	"git.home.luguber.info/inful/jobtracker/internal/export"
	"git.home.luguber.info/inful/jobtracker/internal/store"
	"git.home.luguber.info/inful/jobtracker/internal/tracker"
	"git.home.luguber.info/inful/jobtracker/internal/version"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  version.Version,
		"hydrated": s.store.Hydrated(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleListApplications(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Applications())
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	patch, err := decode[tracker.ApplicationPatch](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid application payload")
		return
	}
	created := s.store.AddApplication(patch)
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	patch, err := decode[tracker.ApplicationPatch](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid application payload")
		return
	}
	s.store.UpdateApplication(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteApplication(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Status tracker.Status `json:"status"`
	}](r)
	if err != nil || !body.Status.Valid() {
		s.writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	s.store.ChangeStatus(r.PathValue("id"), body.Status)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplicationTasks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.TasksForApplication(r.PathValue("id")))
}

func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Tasks())
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	patch, err := decode[tracker.TaskPatch](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid task payload")
		return
	}
	created := s.store.AddTask(patch)
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	patch, err := decode[tracker.TaskPatch](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid task payload")
		return
	}
	s.store.UpdateTask(r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteTask(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := decode[store.FilterSettings](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid filter payload")
		return
	}
	s.store.SetFilters(filters)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Theme tracker.ThemeMode `json:"theme"`
	}](r)
	if err != nil || !body.Theme.Valid() {
		s.writeError(w, http.StatusBadRequest, "invalid theme")
		return
	}
	s.store.SetTheme(body.Theme)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetWeeklyGoal(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		WeeklyGoal int `json:"weeklyGoal"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid weekly goal payload")
		return
	}
	s.store.SetWeeklyGoal(body.WeeklyGoal)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	backup := s.store.ExportBackup()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.BackupFilename(time.Now())+`"`)
	if err := tracker.EncodeBackup(w, backup); err != nil {
		s.logger.Warn("encode backup", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	backup, err := tracker.DecodeBackup(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "backup is not valid JSON")
		return
	}
	if err := s.store.ImportBackup(backup); err != nil {
		// state stays untouched on a failed import
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.store.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	page, err := export.RenderHTMLReport(s.store.State(), time.Now())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "report rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}
