package report

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ailutions/ailutions-site/internal/maturity"
	"github.com/ailutions/ailutions-site/internal/readiness"
	"github.com/ailutions/ailutions-site/internal/roi"
)

var reportDate = time.Date(2026, 3, 9, 15, 4, 0, 0, time.UTC)

func TestFilename(t *testing.T) {
	assert.Equal(t, "Digital-Maturity-Report-Acme-Corp-2026-03-09.pdf", Filename(DigitalMaturity, "Acme Corp", reportDate))
	assert.Equal(t, "ROI-Report-Company-2026-03-09.pdf", Filename(ROI, "   ", reportDate))
	assert.Equal(t, "Automation-Readiness-Report-O-Brien---Sons-2026-03-09.pdf", Filename(AutomationReadiness, "O'Brien & Sons", reportDate))
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{
		"maturity":                    DigitalMaturity,
		"Readiness":                   AutomationReadiness,
		"roi":                         ROI,
		"automation-readiness-report": AutomationReadiness,
	} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseType("invoice")
	assert.Error(t, err)
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeRaster struct {
	png      []byte
	err      error
	html     string
	selector string
	scale    float64
}

func (f *fakeRaster) Rasterize(_ context.Context, html, selector string, scale float64) ([]byte, error) {
	f.html, f.selector, f.scale = html, selector, scale
	return f.png, f.err
}

type fakePrinter struct {
	html  string
	calls int
}

func (f *fakePrinter) PrintPDF(_ context.Context, html string, _ PageSize) ([]byte, error) {
	f.calls++
	f.html = html
	return []byte("%PDF-1.7"), nil
}

func sampleMaturity(t *testing.T) maturity.Result {
	s := maturity.DefaultSurvey()
	a := maturity.Answers{}
	for si, sec := range s.Sections {
		for qi := range sec.Questions {
			a[maturity.Key{Section: si, Question: qi}] = 2
		}
	}
	res, err := maturity.Score(a, s)
	require.NoError(t, err)
	return res
}

func TestRenderPagesTallReport(t *testing.T) {
	raster := &fakeRaster{png: pngOf(t, 100, 300)}
	printer := &fakePrinter{}
	r := NewRenderer(raster, printer)

	pdf, err := r.Render(context.Background(), MaturityDocument("Acme", sampleMaturity(t), nil, reportDate))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))

	assert.Equal(t, RenderTarget, raster.selector)
	assert.Equal(t, float64(RasterScale), raster.scale)
	assert.Contains(t, raster.html, "id='report'")
	assert.Contains(t, raster.html, "<table>")

	// 100x300 at 210mm wide is 630mm tall: three pages.
	assert.Equal(t, 3, strings.Count(printer.html, "class='page'"))
	assert.Contains(t, printer.html, "top:-297mm")
	assert.Contains(t, printer.html, "top:-594mm")
	assert.Equal(t, 1, strings.Count(printer.html, "base64,"), "raster is embedded once")
}

func TestRenderROIIsSinglePage(t *testing.T) {
	raster := &fakeRaster{png: pngOf(t, 100, 300)}
	printer := &fakePrinter{}
	r := NewRenderer(raster, printer)

	in := roi.Inputs{Employees: 10, AvgAnnualSalary: 60000, ManualHoursPerDay: 4, AutomationPercentage: 60, ImplementationCost: 20000, Industry: roi.Other}
	res, err := roi.Project(in)
	require.NoError(t, err)

	_, err = r.Render(context.Background(), ROIDocument("Acme", in, res, reportDate))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(printer.html, "class='page'"))
	assert.Contains(t, raster.html, "180,000")
}

func TestRenderRefusesEmptyTargets(t *testing.T) {
	printer := &fakePrinter{}

	r := NewRenderer(&fakeRaster{png: pngOf(t, 10, 10)}, printer)
	_, err := r.Render(context.Background(), Document{Type: ROI})
	assert.ErrorIs(t, err, ErrEmptyRenderTarget)

	r = NewRenderer(&fakeRaster{}, printer)
	_, err = r.Render(context.Background(), Document{Type: ROI, Body: "# hi"})
	assert.ErrorIs(t, err, ErrEmptyRenderTarget)

	r = NewRenderer(&fakeRaster{err: errors.New("browser crashed")}, printer)
	_, err = r.Render(context.Background(), Document{Type: ROI, Body: "# hi"})
	assert.ErrorContains(t, err, "browser crashed")

	assert.Zero(t, printer.calls)
}

func TestReadinessDocument(t *testing.T) {
	tasks := []readiness.Task{
		{ID: "1", TaskName: "Invoices | billing", Frequency: readiness.FrequencyDaily, TimeSpentMinutes: "30"},
		{ID: "2", TaskName: "Reports", Frequency: readiness.FrequencyWeekly, TimeSpentMinutes: "60"},
	}
	res, ok := readiness.Analyze(tasks)
	require.True(t, ok)

	doc := ReadinessDocument("", res, reportDate)
	assert.Equal(t, AutomationReadiness, doc.Type)
	assert.Contains(t, doc.Body, `Invoices \| billing`)
	assert.Equal(t, "Automation-Readiness-Report-Company-2026-03-09.pdf", doc.Filename())

	html, err := BuildHTML(doc)
	require.NoError(t, err)
	assert.Contains(t, html, "Prepared for:</strong> Company")
	assert.Contains(t, html, "March 9, 2026")
}

func TestBuildHTMLEscapesCompany(t *testing.T) {
	html, err := BuildHTML(Document{Type: ROI, Company: "<script>x</script>", Body: "text", Date: reportDate})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>x")
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "0", thousands(0))
	assert.Equal(t, "999", thousands(999))
	assert.Equal(t, "1,000", thousands(1000))
	assert.Equal(t, "-1,234,567", thousands(-1234567))
}

func TestRenderRecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	r := NewRenderer(&fakeRaster{png: pngOf(t, 100, 300)}, &fakePrinter{})
	r.tracer = tp.Tracer("test")

	_, err := r.Render(context.Background(), MaturityDocument("Acme", sampleMaturity(t), nil, reportDate))
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "report.render", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("report.pages", 3))

	_, err = r.Render(context.Background(), Document{Type: ROI})
	require.ErrorIs(t, err, ErrEmptyRenderTarget)
	spans = rec.Ended()
	require.Len(t, spans, 2)
	assert.Len(t, spans[1].Events(), 1, "error recorded on the span")
}
