// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ClearDemand/tempo-utils/copier"
	"github.com/ClearDemand/tempo-utils/output"
	"github.com/ClearDemand/tempo-utils/tempo"
	"github.com/ClearDemand/tempo-utils/worklog"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultAPITimeout = 60 * time.Second

type Server struct {
	client    tempo.Client
	accountID string
	timeout   time.Duration
	router    *chi.Mux
}

type Config struct {
	AccountID string
	Timeout   time.Duration
}

func NewServer(logger zerolog.Logger, client tempo.Client, cfg Config) http.Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAPITimeout
	}

	server := &Server{
		client:    client,
		accountID: cfg.AccountID,
		timeout:   timeout,
	}

	router := chi.NewRouter()
	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/", server.handleIndex)
	router.Route("/api", func(r chi.Router) {
		r.Get("/worklogs", server.handleAPIWorklogs)
		r.Post("/copy", server.handleAPICopy)
	})
	server.router = router

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger attaches a request-scoped logger to the context so handlers
// can log with method/path fields via zerolog.Ctx.
func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()

			ctx := reqLogger.WithContext(req.Context())
			req = req.WithContext(ctx)

			next.ServeHTTP(w, req)
		})
	}
}

type indexPageView struct {
	Title     string
	AccountID string
}

type weekView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type worklogView struct {
	TempoWorklogID   int64  `json:"tempoWorklogId"`
	IssueID          int64  `json:"issueId"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	TimeSpent        string `json:"timeSpent"`
	Description      string `json:"description"`
}

type daySummaryView struct {
	Date         string `json:"date"`
	Seconds      int    `json:"seconds"`
	WorklogCount int    `json:"worklogCount"`
	TimeSpent    string `json:"timeSpent"`
}

type weekResponse struct {
	Week         weekView         `json:"week"`
	Worklogs     []worklogView    `json:"worklogs"`
	Days         []daySummaryView `json:"days"`
	TotalSeconds int              `json:"totalSeconds"`
}

type copyRequest struct {
	Source       string `json:"source"`
	Dest         string `json:"dest"`
	DryRun       bool   `json:"dryRun"`
	SkipExisting bool   `json:"skipExisting"`
}

type plannedEntryView struct {
	SourceWorklogID  int64  `json:"sourceWorklogId"`
	IssueID          int64  `json:"issueId"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	TimeSpent        string `json:"timeSpent"`
	Description      string `json:"description"`
	Exists           bool   `json:"exists"`
}

type copyFailureView struct {
	SourceWorklogID int64  `json:"sourceWorklogId"`
	Date            string `json:"date"`
	IssueID         int64  `json:"issueId"`
	Error           string `json:"error"`
}

type copyResponse struct {
	SourceWeek weekView           `json:"sourceWeek"`
	DestWeek   weekView           `json:"destWeek"`
	OffsetDays int                `json:"offsetDays"`
	DryRun     bool               `json:"dryRun"`
	Entries    []plannedEntryView `json:"entries"`
	Created    int                `json:"created"`
	Skipped    int                `json:"skipped"`
	Failed     int                `json:"failed"`
	Failures   []copyFailureView  `json:"failures,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexPageView{
		Title:     "tempoutils",
		AccountID: s.accountID,
	}
	if err := renderTemplate(w, "index.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIWorklogs(w http.ResponseWriter, r *http.Request) {
	weekRaw := strings.TrimSpace(r.URL.Query().Get("week"))
	if weekRaw == "" {
		http.Error(w, "missing week query parameter", http.StatusBadRequest)
		return
	}
	week, err := worklog.ParseWeek(weekRaw, time.Now())
	if err != nil {
		http.Error(w, "invalid week value (expected YYYY-MM-DD or natural language)", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	worklogs, err := s.client.ListUserWorklogs(ctx, s.accountID, week.Start, week.End())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("week", week.String()).Msg("load worklogs")
		http.Error(w, fmt.Sprintf("load worklogs: %v", err), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, buildWeekResponse(week, worklogs))
}

func (s *Server) handleAPICopy(w http.ResponseWriter, r *http.Request) {
	var body copyRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	sourceWeek, err := worklog.ParseWeek(body.Source, now)
	if err != nil {
		http.Error(w, "invalid source value (expected YYYY-MM-DD or natural language)", http.StatusBadRequest)
		return
	}
	destWeek, err := worklog.ParseWeek(body.Dest, now)
	if err != nil {
		http.Error(w, "invalid dest value (expected YYYY-MM-DD or natural language)", http.StatusBadRequest)
		return
	}

	options := copier.RunOptions{
		SkipExisting: body.SkipExisting,
		Timeout:      s.timeout,
	}

	plan, err := copier.PlanWeek(r.Context(), s.client, s.accountID, sourceWeek, destWeek, options)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("source", sourceWeek.String()).
			Str("dest", destWeek.String()).
			Msg("plan copy")
		http.Error(w, fmt.Sprintf("plan copy: %v", err), http.StatusBadGateway)
		return
	}

	resp := buildCopyResponse(plan)
	if body.DryRun {
		resp.DryRun = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	result := copier.Apply(r.Context(), s.client, plan, options)
	resp.Created = result.Created
	resp.Skipped = result.Skipped
	resp.Failed = len(result.Failures)
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, copyFailureView{
			SourceWorklogID: failure.SourceID,
			Date:            failure.Date,
			IssueID:         failure.IssueID,
			Error:           failure.Err.Error(),
		})
	}
	if resp.Failed > 0 {
		zerolog.Ctx(r.Context()).Warn().
			Int("failed", resp.Failed).
			Int("created", resp.Created).
			Msg("copy finished with failures")
	}

	writeJSON(w, http.StatusOK, resp)
}

func buildWeekResponse(week worklog.Week, worklogs []tempo.Worklog) weekResponse {
	resp := weekResponse{
		Week:     buildWeekView(week),
		Worklogs: make([]worklogView, 0, len(worklogs)),
		Days:     make([]daySummaryView, 0, 7),
	}
	for _, entry := range worklogs {
		resp.TotalSeconds += entry.TimeSpentSeconds
		resp.Worklogs = append(resp.Worklogs, worklogView{
			TempoWorklogID:   entry.TempoWorklogID,
			IssueID:          entry.Issue.ID,
			StartDate:        entry.StartDate,
			StartTime:        entry.StartTime,
			TimeSpentSeconds: entry.TimeSpentSeconds,
			TimeSpent:        output.FormatDuration(entry.TimeSpentSeconds),
			Description:      entry.Description,
		})
	}
	for _, summary := range output.BuildDaySummaries(worklogs) {
		resp.Days = append(resp.Days, daySummaryView{
			Date:         summary.Date,
			Seconds:      summary.Seconds,
			WorklogCount: summary.WorklogCount,
			TimeSpent:    output.FormatDuration(summary.Seconds),
		})
	}
	return resp
}

func buildCopyResponse(plan *copier.Plan) copyResponse {
	resp := copyResponse{
		SourceWeek: buildWeekView(plan.SourceWeek),
		DestWeek:   buildWeekView(plan.DestWeek),
		OffsetDays: plan.OffsetDays,
		Entries:    make([]plannedEntryView, 0, len(plan.Entries)),
	}
	for _, entry := range plan.Entries {
		resp.Entries = append(resp.Entries, plannedEntryView{
			SourceWorklogID:  entry.Source.TempoWorklogID,
			IssueID:          entry.Request.IssueID,
			StartDate:        entry.Request.StartDate,
			StartTime:        entry.Request.StartTime,
			TimeSpentSeconds: entry.Request.TimeSpentSeconds,
			TimeSpent:        output.FormatDuration(entry.Request.TimeSpentSeconds),
			Description:      entry.Request.Description,
			Exists:           entry.Exists,
		})
	}
	return resp
}

func buildWeekView(week worklog.Week) weekView {
	return weekView{
		Start: tempo.FormatDate(week.Start),
		End:   tempo.FormatDate(week.End()),
	}
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
