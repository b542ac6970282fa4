// Package httpapi serves the site's JSON API, report downloads and static
// pages.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/ailutions/ailutions-site/internal/apperr"
	"github.com/ailutions/ailutions-site/internal/maturity"
	"github.com/ailutions/ailutions-site/internal/narrative"
	"github.com/ailutions/ailutions-site/internal/readiness"
	"github.com/ailutions/ailutions-site/internal/report"
	"github.com/ailutions/ailutions-site/internal/roi"
	"github.com/ailutions/ailutions-site/internal/submissions"
)

const maxBodyBytes = 1 << 20

type ReportRenderer interface {
	Render(ctx context.Context, doc report.Document) ([]byte, error)
}

type Deps struct {
	Log      submissions.Log
	Gateway  *narrative.Gateway
	Renderer ReportRenderer
	WebDir   string
	Now      func() time.Time
}

type Server struct {
	log      submissions.Log
	survey   maturity.Survey
	renderer ReportRenderer
	webDir   string
	now      func() time.Time
}

func NewServer(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = submissions.NewMemoryLog()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{
		log:      d.Log,
		survey:   maturity.DefaultSurvey(),
		renderer: d.Renderer,
		webDir:   d.WebDir,
		now:      d.Now,
	}

	mux := http.NewServeMux()
	mux.Handle("/api/generate-report", &narrative.Handler{Gateway: d.Gateway, Log: d.Log})
	mux.HandleFunc("/api/maturity/survey", s.handleSurvey)
	mux.HandleFunc("/api/maturity/score", s.handleMaturityScore)
	mux.HandleFunc("/api/readiness/analyze", s.handleReadinessAnalyze)
	mux.HandleFunc("/api/readiness/score-task", s.handleScoreTask)
	mux.HandleFunc("/api/roi/project", s.handleROIProject)
	mux.HandleFunc("/api/contact", s.handleContact)
	mux.HandleFunc("/api/reports/", s.handleReport)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// writeJSON encodes before writing the header so an unencodable payload
// becomes a 500 rather than an empty success.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg("encode response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeAppError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		log.Error().Err(err).Msg("request failed")
	}
	writeError(w, status, apperr.PublicMessage(err))
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// record appends to the submission log. The log is informational, so a
// failure is only a warning.
func (s *Server) record(ctx context.Context, kind submissions.Kind, payload any) {
	if _, err := s.log.Append(ctx, kind, payload); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("record submission")
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// Prevent stale pages after deploys.
	w.Header().Set("Cache-Control", "no-store")
	if s.webDir == "" {
		http.NotFound(w, r)
		return
	}
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	rel := strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")
	if info, err := fs.Stat(os.DirFS(s.webDir), rel); err == nil && !info.IsDir() {
		http.ServeFile(w, r, filepath.Join(s.webDir, rel))
		return
	}
	http.NotFound(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.survey)
}

type maturityRequest struct {
	CompanyName string           `json:"companyName"`
	Answers     maturity.Answers `json:"answers"`
}

func (s *Server) scoreMaturity(answers maturity.Answers) (maturity.Result, error) {
	res, err := maturity.Score(answers, s.survey)
	switch {
	case errors.Is(err, maturity.ErrIncompleteSurvey):
		return res, apperr.FailedPrecondition(err.Error(), err)
	case err != nil:
		return res, apperr.InvalidArgument(err.Error(), err)
	}
	return res, nil
}

func (s *Server) handleMaturityScore(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req maturityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.scoreMaturity(req.Answers)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.record(r.Context(), submissions.KindMaturity, map[string]any{
		"companyName": req.CompanyName,
		"answers":     req.Answers,
		"result":      res,
	})
	writeJSON(w, http.StatusOK, res)
}

type readinessRequest struct {
	CompanyName string           `json:"companyName"`
	Tasks       []readiness.Task `json:"tasks"`
}

func (s *Server) handleReadinessAnalyze(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req readinessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Tasks) > readiness.MaxTasks {
		writeAppError(w, apperr.InvalidArgument(readiness.ErrTooManyTasks.Error(), readiness.ErrTooManyTasks))
		return
	}
	res, ok := readiness.Analyze(req.Tasks)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"result": nil})
		return
	}
	s.record(r.Context(), submissions.KindReadiness, map[string]any{
		"companyName": req.CompanyName,
		"result":      res,
	})
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

func (s *Server) handleScoreTask(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var t readiness.Task
	if !decodeBody(w, r, &t) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"score":       readiness.ScoreTask(t),
		"annualHours": t.AnnualHours(),
		"priority":    t.Priority(),
		"complete":    t.Complete(),
	})
}

type roiRequest struct {
	roi.Inputs
	CompanyName string `json:"companyName"`
}

func (s *Server) handleROIProject(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req roiRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := roi.Project(req.Inputs)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.record(r.Context(), submissions.KindROI, map[string]any{
		"companyName": req.CompanyName,
		"inputs":      req.Inputs,
		"result":      res,
	})
	writeJSON(w, http.StatusOK, map[string]any{"result": res, "display": res.Display()})
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

var validate = validator.New()

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req contactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Company = strings.TrimSpace(req.Company)
	req.Message = strings.TrimSpace(req.Message)
	if err := validate.Struct(req); err != nil {
		writeAppError(w, apperr.Validation(err))
		return
	}
	s.record(r.Context(), submissions.KindContact, req)
	writeJSON(w, http.StatusOK, map[string]any{"status": "received"})
}

// reportRequest carries the input of whichever tool the report is for.
// ROI inputs sit at the top level, next to companyName.
type reportRequest struct {
	roi.Inputs
	CompanyName string            `json:"companyName"`
	Answers     maturity.Answers  `json:"answers"`
	Narrative   *narrative.Report `json:"narrative"`
	Tasks       []readiness.Task  `json:"tasks"`
}

func (s *Server) buildDocument(t report.Type, req reportRequest) (report.Document, error) {
	date := s.now()
	switch t {
	case report.DigitalMaturity:
		res, err := s.scoreMaturity(req.Answers)
		if err != nil {
			return report.Document{}, err
		}
		return report.MaturityDocument(req.CompanyName, res, req.Narrative, date), nil
	case report.AutomationReadiness:
		res, ok := readiness.Analyze(req.Tasks)
		if !ok {
			return report.Document{}, apperr.InvalidArgument("at least one complete task is required", nil)
		}
		return report.ReadinessDocument(req.CompanyName, res, date), nil
	case report.ROI:
		res, err := roi.Project(req.Inputs)
		if err != nil {
			return report.Document{}, err
		}
		return report.ROIDocument(req.CompanyName, req.Inputs, res, date), nil
	}
	return report.Document{}, apperr.NotFound(fmt.Sprintf("unknown report type %q", t))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	t, err := report.ParseType(strings.TrimPrefix(r.URL.Path, "/api/reports/"))
	if err != nil {
		writeAppError(w, apperr.NotFound(err.Error()))
		return
	}
	if s.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "pdf renderer unavailable")
		return
	}
	var req reportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc, err := s.buildDocument(t, req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	pdf, err := s.renderer.Render(r.Context(), doc)
	if err != nil {
		if errors.Is(err, report.ErrEmptyRenderTarget) {
			writeError(w, http.StatusUnprocessableEntity, "nothing to render")
			return
		}
		log.Error().Err(err).Str("type", string(t)).Msg("render report pdf failed")
		writeError(w, http.StatusInternalServerError, "failed to render pdf")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
