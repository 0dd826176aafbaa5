package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/study-hub/study-tracker-hub/internal/application/command"
	"github.com/study-hub/study-tracker-hub/internal/application/query"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
	"github.com/study-hub/study-tracker-hub/internal/interface/export"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsStateTransition(err):
		writeJSONError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body is not valid JSON")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "study-tracker-hub",
		"status":  "ok",
	})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{}
	if s.deps.HealthChecker != nil {
		components = s.deps.HealthChecker.Check(r.Context())
	}

	status := http.StatusOK
	overall := "healthy"
	for _, state := range components {
		if state != "healthy" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{
		"status":     overall,
		"components": components,
		"uptime_sec": int64(s.Uptime().Seconds()),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type logSessionRequest struct {
	Date            string `json:"date"`
	TopicID         string `json:"topicId"`
	DurationMinutes string `json:"durationMinutes"`
	Exercises       string `json:"exercises"`
	Pages           string `json:"pages"`
	Notes           string `json:"notes"`
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var req logSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	day, err := shared.ParseDay(req.Date)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "date must be in YYYY-MM-DD format")
		return
	}

	// Numeric form fields arrive as strings; unparsable values fall
	// back to zero instead of rejecting the whole submission.
	result, err := s.deps.LogSession.Handle(r.Context(), command.LogSessionCommand{
		Date:            day,
		TopicID:         shared.ParseTopicRef(req.TopicID),
		DurationMinutes: shared.ParseIntOrZero(req.DurationMinutes),
		Exercises:       shared.ParseIntOrZero(req.Exercises),
		Pages:           shared.ParseIntOrZero(req.Pages),
		Notes:           req.Notes,
		Source:          command.SourceManual,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	page := shared.ParseIntOrZero(r.URL.Query().Get("page"))
	pageSize := shared.ParseIntOrZero(r.URL.Query().Get("page_size"))

	result, err := s.deps.ListSessions.Handle(r.Context(), query.ListSessionsQuery{
		Pagination: shared.NewPagination(page, pageSize),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Sessions, &ResponseMeta{
		TotalCount: result.Total,
		Offset:     (result.Page - 1) * result.PageSize,
		Limit:      result.PageSize,
		HasMore:    result.Page*result.PageSize < result.Total,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := shared.ParseID(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "session id must be a positive integer")
		return
	}

	result, err := s.deps.DeleteSession.Handle(r.Context(), command.DeleteSessionCommand{
		SessionID: sessionID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type saveTopicRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Color    string `json:"color"`
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListTopics.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	s.saveTopic(w, r, 0)
}

func (s *Server) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	topicID, err := shared.ParseID(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "topic id must be a positive integer")
		return
	}
	s.saveTopic(w, r, topicID)
}

func (s *Server) saveTopic(w http.ResponseWriter, r *http.Request, topicID int64) {
	var req saveTopicRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SaveTopic.Handle(r.Context(), command.SaveTopicCommand{
		TopicID:  topicID,
		Name:     req.Name,
		Category: req.Category,
		Status:   tracker.TopicStatus(req.Status),
		Color:    req.Color,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result.Topic)
}

func (s *Server) handleSetTopicStatus(w http.ResponseWriter, r *http.Request) {
	topicID, err := shared.ParseID(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "topic id must be a positive integer")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	topic, err := s.deps.SetTopicStatus.Handle(r.Context(), command.SetTopicStatusCommand{
		TopicID: topicID,
		Status:  tracker.TopicStatus(req.Status),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, topic)
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	topicID, err := shared.ParseID(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "topic id must be a positive integer")
		return
	}

	err = s.deps.DeleteTopic.Handle(r.Context(), command.DeleteTopicCommand{TopicID: topicID})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// GOALS HANDLER
// ══════════════════════════════════════════════════════════════════════════════

type setGoalsRequest struct {
	DailyMinutes  string `json:"dailyMinutes"`
	WeeklyMinutes string `json:"weeklyMinutes"`
}

func (s *Server) handleSetGoals(w http.ResponseWriter, r *http.Request) {
	var req setGoalsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	goals, err := s.deps.SetGoals.Handle(r.Context(), command.SetGoalsCommand{
		DailyMinutes:  shared.ParseIntOrZero(req.DailyMinutes),
		WeeklyMinutes: shared.ParseIntOrZero(req.WeeklyMinutes),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTED VIEW HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetDashboard.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetAnalytics.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetAchievements.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetReport renders the plain-text study report.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	data, err := s.deps.GetReportData.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.RenderReport(data)))
}

// ══════════════════════════════════════════════════════════════════════════════
// POMODORO HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handlePomodoroState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Timer.State())
}

func (s *Server) handlePomodoroStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID string `json:"topicId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.deps.Timer.Start(shared.ParseTopicRef(req.TopicID)); err != nil {
		if errors.Is(err, shared.ErrNoTopicSelected) {
			writeJSONError(w, http.StatusBadRequest, "no_topic_selected",
				"Select a topic before starting the timer")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.deps.Timer.State())
}

func (s *Server) handlePomodoroPause(w http.ResponseWriter, _ *http.Request) {
	if err := s.deps.Timer.Pause(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Timer.State())
}

func (s *Server) handlePomodoroReset(w http.ResponseWriter, _ *http.Request) {
	s.deps.Timer.Reset()
	writeJSON(w, http.StatusOK, s.deps.Timer.State())
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLER
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Notifications == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Notifications.Recent())
}
