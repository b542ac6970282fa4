package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ailutions/ailutions-site/internal/maturity"
	"github.com/ailutions/ailutions-site/internal/narrative"
	"github.com/ailutions/ailutions-site/internal/report"
	"github.com/ailutions/ailutions-site/internal/submissions"
)

type fakeRenderer struct {
	doc report.Document
	err error
}

func (f *fakeRenderer) Render(_ context.Context, doc report.Document) ([]byte, error) {
	f.doc = doc
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

type stubCaller struct{ text string }

func (s stubCaller) GenerateText(context.Context, string) (string, error) { return s.text, nil }

func newServerForTest(t *testing.T) (http.Handler, *submissions.MemoryLog, *fakeRenderer) {
	t.Helper()
	log := submissions.NewMemoryLog()
	renderer := &fakeRenderer{}
	web := t.TempDir()
	if err := os.WriteFile(filepath.Join(web, "index.html"), []byte("<h1>Ailutions</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(web, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewServer(Deps{
		Log:      log,
		Renderer: renderer,
		WebDir:   web,
		Now:      func() time.Time { return time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC) },
	})
	return h, log, renderer
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var blob []byte
	switch v := body.(type) {
	case string:
		blob = []byte(v)
	default:
		var err error
		blob, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(blob))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func allAnswers(value int) map[string]int {
	out := map[string]int{}
	for si, sec := range maturity.DefaultSurvey().Sections {
		for qi := range sec.Questions {
			out[maturity.Key{Section: si, Question: qi}.String()] = value
		}
	}
	return out
}

func count(t *testing.T, log *submissions.MemoryLog, kind submissions.Kind) int {
	t.Helper()
	entries, err := log.List(context.Background(), kind)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestHealth(t *testing.T) {
	h, _, _ := newServerForTest(t)
	rr := get(h, "/healthz")
	if rr.Code != http.StatusOK || decode(t, rr)["status"] != "ok" {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}

func TestGenerateReportRoutes(t *testing.T) {
	h, _, _ := newServerForTest(t)

	rr := get(h, "/api/generate-report")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status=%d", rr.Code)
	}
	if decode(t, rr)["error"] != "Method Not Allowed" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}

	rr = postJSON(t, h, "/api/generate-report", `{"answers":{}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing results status=%d", rr.Code)
	}

	rr = postJSON(t, h, "/api/generate-report", `{"answers":{},"results":{"score":50,"maturityStage":{"name":"Emerging"},"categoryScores":{}}}`)
	if rr.Code != http.StatusInternalServerError || decode(t, rr)["error"] != "Server configuration error." {
		t.Fatalf("unconfigured gateway: %d %s", rr.Code, rr.Body.String())
	}
}

func TestGenerateReportWithGateway(t *testing.T) {
	log := submissions.NewMemoryLog()
	text := `{"executiveSummary":"s","personalizedRecommendations":[{"title":"a","description":"b"},{"title":"c","description":"d"},{"title":"e","description":"f"}],"actionPlan":[{"step":"a","description":"b"},{"step":"c","description":"d"}]}`
	h := NewServer(Deps{Log: log, Gateway: narrative.NewGateway(stubCaller{text: text})})

	rr := postJSON(t, h, "/api/generate-report", `{"answers":{"0-0":1},"results":{"score":50,"maturityStage":{"name":"Emerging"},"categoryScores":{}}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if decode(t, rr)["executiveSummary"] != "s" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if count(t, log, submissions.KindNarrative) != 1 {
		t.Fatal("expected narrative report to be recorded")
	}
}

func TestSurvey(t *testing.T) {
	h, _, _ := newServerForTest(t)
	rr := get(h, "/api/maturity/survey")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	sections, _ := decode(t, rr)["sections"].([]any)
	if len(sections) != 6 {
		t.Fatalf("sections=%d want 6", len(sections))
	}
	if rr := postJSON(t, h, "/api/maturity/survey", "{}"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status=%d", rr.Code)
	}
}

func TestMaturityScore(t *testing.T) {
	h, log, _ := newServerForTest(t)

	rr := postJSON(t, h, "/api/maturity/score", map[string]any{"companyName": "Acme", "answers": allAnswers(2)})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	stage := body["maturityStage"].(map[string]any)
	if stage["name"] != "Established" {
		t.Fatalf("stage=%v", stage["name"])
	}
	if count(t, log, submissions.KindMaturity) != 1 {
		t.Fatal("expected maturity assessment to be recorded")
	}

	partial := allAnswers(2)
	delete(partial, "3-1")
	rr = postJSON(t, h, "/api/maturity/score", map[string]any{"answers": partial})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("incomplete status=%d", rr.Code)
	}

	bad := allAnswers(2)
	bad["0-0"] = 9
	rr = postJSON(t, h, "/api/maturity/score", map[string]any{"answers": bad})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid status=%d", rr.Code)
	}
	if count(t, log, submissions.KindMaturity) != 1 {
		t.Fatal("rejected submissions must not be recorded")
	}
}

func TestReadinessAnalyze(t *testing.T) {
	h, log, _ := newServerForTest(t)

	rr := postJSON(t, h, "/api/readiness/analyze", `{"tasks":[{"id":"a","taskName":"","frequency":"daily","timeSpentMinutes":30}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if v, ok := decode(t, rr)["result"]; !ok || v != nil {
		t.Fatalf("expected null result, got %s", rr.Body.String())
	}

	rr = postJSON(t, h, "/api/readiness/analyze", `{"tasks":[
		{"id":"a","taskName":"Invoices","frequency":"daily","timeSpentMinutes":"30"},
		{"id":"b","taskName":"Reports","frequency":"weekly","timeSpentMinutes":60},
		{"id":"c","taskName":"Audit","frequency":"monthly","timeSpentMinutes":30}
	]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	res := decode(t, rr)["result"].(map[string]any)
	if res["readinessScore"] != float64(100) || res["readinessLevel"] != "High" {
		t.Fatalf("unexpected result %v", res)
	}
	top := res["topCandidates"].([]any)
	if top[0].(map[string]any)["taskName"] != "Invoices" {
		t.Fatalf("unexpected ranking %v", top)
	}
	if count(t, log, submissions.KindReadiness) != 1 {
		t.Fatal("expected readiness assessment to be recorded")
	}

	many := make([]map[string]any, 11)
	for i := range many {
		many[i] = map[string]any{"id": "t", "taskName": "t", "frequency": "daily", "timeSpentMinutes": 5}
	}
	if rr := postJSON(t, h, "/api/readiness/analyze", map[string]any{"tasks": many}); rr.Code != http.StatusBadRequest {
		t.Fatalf("too many tasks status=%d", rr.Code)
	}
}

func TestReadinessAnalyzeAcceptsCapitalizedFrequency(t *testing.T) {
	h, _, _ := newServerForTest(t)
	rr := postJSON(t, h, "/api/readiness/analyze", `{"tasks":[{"taskName":"Invoices","frequency":"Daily","timeSpentMinutes":30}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	res, ok := decode(t, rr)["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected a result, got %s", rr.Body.String())
	}
	if res["totalTasks"] != float64(1) {
		t.Fatalf("unexpected result %v", res)
	}
}

func TestScoreTask(t *testing.T) {
	h, _, _ := newServerForTest(t)
	rr := postJSON(t, h, "/api/readiness/score-task", `{"taskName":"Invoices","frequency":"daily","timeSpentMinutes":"30"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := decode(t, rr)
	if body["score"] != float64(21900) || body["priority"] != "high" || body["annualHours"] != float64(182.5) {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestROIProject(t *testing.T) {
	h, log, _ := newServerForTest(t)
	rr := postJSON(t, h, "/api/roi/project", map[string]any{
		"companyName":          "Acme",
		"employees":            10,
		"avgAnnualSalary":      60000,
		"manualHoursPerDay":    4,
		"automationPercentage": 60,
		"implementationCost":   20000,
		"industry":             "other",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	display := decode(t, rr)["display"].(map[string]any)
	if display["yearlySavings"] != float64(180000) || display["paybackMonths"] != 1.3 {
		t.Fatalf("unexpected display %v", display)
	}
	if count(t, log, submissions.KindROI) != 1 {
		t.Fatal("expected roi calculation to be recorded")
	}

	rr = postJSON(t, h, "/api/roi/project", map[string]any{
		"employees": 10, "avgAnnualSalary": 60000, "manualHoursPerDay": 4,
		"automationPercentage": 60, "implementationCost": 0, "industry": "other",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("zero cost status=%d", rr.Code)
	}
	if !strings.Contains(decode(t, rr)["error"].(string), "implementationCost") {
		t.Fatalf("unexpected error %s", rr.Body.String())
	}
}

func TestROIProjectRejectsOverflowingInputs(t *testing.T) {
	h, log, _ := newServerForTest(t)
	rr := postJSON(t, h, "/api/roi/project", map[string]any{
		"employees":            1,
		"avgAnnualSalary":      1.7e308,
		"manualHoursPerDay":    24,
		"automationPercentage": 100,
		"implementationCost":   1,
		"industry":             "technology",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	if !strings.Contains(decode(t, rr)["error"].(string), "avgAnnualSalary") {
		t.Fatalf("unexpected error %s", rr.Body.String())
	}
	if count(t, log, submissions.KindROI) != 0 {
		t.Fatal("rejected inputs must not be recorded")
	}
}

func TestWriteJSONUnencodablePayloadIs500(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]any{"yearlySavings": math.Inf(1)})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if decode(t, rr)["error"] != "internal error" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestContact(t *testing.T) {
	h, log, _ := newServerForTest(t)
	rr := postJSON(t, h, "/api/contact", map[string]any{"name": "Ada", "email": "ada@example.com", "message": "Hello"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	rr = postJSON(t, h, "/api/contact", map[string]any{"name": "Ada", "email": "not-an-email", "message": "Hello"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad email status=%d", rr.Code)
	}
	if rr := postJSON(t, h, "/api/contact", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("empty body status=%d", rr.Code)
	}
	if count(t, log, submissions.KindContact) != 1 {
		t.Fatal("expected exactly one contact submission")
	}
}

func TestReportDownload(t *testing.T) {
	h, _, renderer := newServerForTest(t)

	rr := postJSON(t, h, "/api/reports/maturity", map[string]any{"companyName": "Acme Corp", "answers": allAnswers(3)})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type=%s", ct)
	}
	want := `attachment; filename="Digital-Maturity-Report-Acme-Corp-2026-02-17.pdf"`
	if cd := rr.Header().Get("Content-Disposition"); cd != want {
		t.Fatalf("content-disposition=%s", cd)
	}
	if !strings.Contains(renderer.doc.Body, "Advanced") {
		t.Fatalf("document missing stage: %s", renderer.doc.Body)
	}

	rr = postJSON(t, h, "/api/reports/roi", map[string]any{
		"employees": 10, "avgAnnualSalary": 60000, "manualHoursPerDay": 4,
		"automationPercentage": 60, "implementationCost": 20000, "industry": "retail",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("roi status=%d body=%s", rr.Code, rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "ROI-Report-Company-2026-02-17.pdf") {
		t.Fatalf("content-disposition=%s", cd)
	}

	if rr := postJSON(t, h, "/api/reports/readiness", `{"tasks":[]}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("empty readiness status=%d", rr.Code)
	}
	if rr := postJSON(t, h, "/api/reports/invoice", "{}"); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown type status=%d", rr.Code)
	}
	if rr := get(h, "/api/reports/roi"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status=%d", rr.Code)
	}
}

func TestReportRendererUnavailable(t *testing.T) {
	h := NewServer(Deps{})
	if rr := postJSON(t, h, "/api/reports/roi", "{}"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestRenderFailureIsGeneric(t *testing.T) {
	h, _, renderer := newServerForTest(t)
	renderer.err = report.ErrEmptyRenderTarget
	rr := postJSON(t, h, "/api/reports/maturity", map[string]any{"answers": allAnswers(1)})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestStaticFiles(t *testing.T) {
	h, _, _ := newServerForTest(t)

	rr := get(h, "/")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Ailutions") {
		t.Fatalf("index: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Cache-Control") != "no-store" {
		t.Fatal("expected no-store cache header")
	}
	if rr := get(h, "/style.css"); rr.Code != http.StatusOK {
		t.Fatalf("style.css status=%d", rr.Code)
	}
	if rr := get(h, "/missing.js"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing status=%d", rr.Code)
	}
	if rr := get(h, "/etc/passwd"); rr.Code != http.StatusNotFound {
		t.Fatalf("outside web dir status=%d", rr.Code)
	}
}
