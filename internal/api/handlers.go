// Package api exposes HTTP handlers for the carbon tracker.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yashbhambure/spark-carbon-log/internal/auth"
	"github.com/yashbhambure/spark-carbon-log/internal/domain"
	"github.com/yashbhambure/spark-carbon-log/internal/export"
	"github.com/yashbhambure/spark-carbon-log/internal/persistence"
	"github.com/yashbhambure/spark-carbon-log/internal/summary"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service    *domain.Service
	classifier domain.Classifier
	now        func() time.Time
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, classifier domain.Classifier) *Handler {
	return &Handler{service: service, classifier: classifier, now: time.Now}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/activities/", h.activityByID)
	mux.HandleFunc("/v1/classify", h.classify)
	mux.HandleFunc("/v1/summary/daily", h.dailySummary)
	mux.HandleFunc("/v1/summary/weekly", h.weeklySummary)
	mux.HandleFunc("/v1/summary/heatmap", h.heatmap)
	mux.HandleFunc("/v1/export", h.exportActivities)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.logActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/activities/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivity(w, r, id)
	case http.MethodPut:
		h.updateActivity(w, r, id)
	case http.MethodDelete:
		h.deleteActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req LogActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	activity, err := h.service.LogActivity(r.Context(), domain.LogActivityInput{
		UserID:       claims.Subject,
		Description:  req.Description,
		ActivityDate: req.ActivityDate,
		Category:     domain.Category(req.Category),
		EmissionKg:   req.EmissionKg,
	})
	if err != nil {
		if isValidationErr(err) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toActivityView(*activity))
}

func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if _, ok := requireScope(w, r, auth.ScopeWrite); !ok {
		return
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "description is required")
		return
	}

	result := h.classifier.Classify(req.Description)
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Category:   string(result.Category),
		EmissionKg: result.EmissionKg,
	})
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeRead, auth.ScopeWrite)
	if !ok {
		return
	}

	activity, err := h.service.GetActivity(r.Context(), claims.Subject, id)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	activity, err := h.service.UpdateActivity(r.Context(), domain.UpdateActivityInput{
		UserID:      claims.Subject,
		ActivityID:  id,
		Description: req.Description,
		Category:    domain.Category(req.Category),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
		case isValidationErr(err):
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteActivity(r.Context(), claims.Subject, id); err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeRead, auth.ScopeWrite)
	if !ok {
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	activities, next, err := h.service.ListActivities(r.Context(), claims.Subject, filter, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, a := range activities {
		items = append(items, toActivityView(a))
	}

	writeJSON(w, http.StatusOK, ListActivitiesResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeRead, auth.ScopeWrite)
	if !ok {
		return
	}

	today, err := h.resolveToday(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	activities, err := h.service.RecentWindow(r.Context(), claims.Subject, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	daily := summary.ComputeDaily(activities, today)
	level := summary.Score(daily.TotalEmission)

	resp := DailySummaryResponse{
		Date:          daily.Date,
		TotalEmission: daily.TotalEmission,
		ActivityCount: daily.ActivityCount,
		ScoreLevel:    string(level),
		Tip:           summary.DailyTip(level),
		Activities:    make([]ActivityView, 0, len(daily.Activities)),
	}
	for _, a := range daily.Activities {
		resp.Activities = append(resp.Activities, toActivityView(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) weeklySummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeRead, auth.ScopeWrite)
	if !ok {
		return
	}

	today, err := h.resolveToday(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	activities, err := h.service.RecentWindow(r.Context(), claims.Subject, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	history, err := h.service.ComparisonHistory(r.Context(), claims.Subject, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	week := summary.ComputeWeekly(activities, history, today)

	resp := WeeklySummaryResponse{
		TotalEmissionKg:        week.TotalEmissionKg,
		AverageDailyEmissionKg: week.AverageDailyEmissionKg,
		ActivityCount:          week.ActivityCount,
		ComparisonToPrevWeek:   week.ComparisonToPrevWeek,
		CategoryBreakdown:      make([]CategoryShareView, 0, len(week.CategoryBreakdown)),
		DailyData:              make([]DayPointView, 0, len(week.DailyData)),
		Recommendations:        summary.Recommend(week),
	}
	for _, share := range week.CategoryBreakdown {
		resp.CategoryBreakdown = append(resp.CategoryBreakdown, CategoryShareView{
			Category:      string(share.Category),
			TotalEmission: share.TotalEmission,
			Percentage:    share.Percentage,
		})
	}
	for _, point := range week.DailyData {
		resp.DailyData = append(resp.DailyData, DayPointView{
			Day:      point.Day,
			Emission: point.Emission,
			Date:     point.Date,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) heatmap(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeRead, auth.ScopeWrite)
	if !ok {
		return
	}

	today, err := h.resolveToday(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	activities, history, err := h.service.HeatmapData(r.Context(), claims.Subject, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	cells := summary.ComputeHeatmap(activities, history, today)
	views := make([]HeatmapCellView, 0, len(cells))
	for _, cell := range cells {
		views = append(views, HeatmapCellView{
			Week:  cell.Week,
			Day:   cell.Day,
			Value: cell.Value,
			Date:  cell.Date,
		})
	}

	writeJSON(w, http.StatusOK, HeatmapResponse{Cells: views})
}

func (h *Handler) exportActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeRead, auth.ScopeWrite)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	// Page through the full history; the export is bounded by the user's
	// own record count.
	var (
		all    []domain.Activity
		cursor *domain.Cursor
	)
	for {
		page, next, err := h.service.ListActivities(r.Context(), claims.Subject, filter, cursor, 500)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		all = append(all, page...)
		if next == nil {
			break
		}
		cursor = next
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, all); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	filename := fmt.Sprintf("activity-history-%s.%s", domain.DateOf(h.now().UTC()), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// resolveToday picks the calendar date summaries are computed against. The
// client sends its local date (the user's "today"); absent that, server UTC.
func (h *Handler) resolveToday(r *http.Request) (domain.Date, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		return domain.ParseDate(raw)
	}
	return domain.DateOf(h.now().UTC()), nil
}

func parseListFilter(r *http.Request) (domain.ListFilter, error) {
	var filter domain.ListFilter
	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.Category(raw)
		if !category.Valid() {
			return filter, fmt.Errorf("unknown category %q", raw)
		}
		filter.Category = category
	}
	filter.Search = strings.TrimSpace(r.URL.Query().Get("q"))
	return filter, nil
}

func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("scope %s required", scopes[0]))
	return nil, false
}

func isValidationErr(err error) bool {
	return errors.Is(err, domain.ErrEmptyDescription) ||
		errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrNegativeEmission)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toActivityView(a domain.Activity) ActivityView {
	return ActivityView{
		ActivityID:   a.ID,
		UserID:       a.UserID,
		Description:  a.Description,
		Category:     string(a.Category),
		EmissionKg:   a.EmissionKg,
		ActivityDate: a.ActivityDate,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
