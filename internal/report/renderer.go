package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RasterScale is the device scale the report is captured at for print
// fidelity.
const RasterScale = 2

// Rasterizer captures the element matched by selector as a PNG, waiting for
// it to become visible first.
type Rasterizer interface {
	Rasterize(ctx context.Context, html, selector string, scale float64) ([]byte, error)
}

// Printer prints an HTML document to PDF at the given paper size with no
// margins.
type Printer interface {
	PrintPDF(ctx context.Context, html string, page PageSize) ([]byte, error)
}

type Renderer struct {
	raster  Rasterizer
	printer Printer
	page    PageSize
	tracer  trace.Tracer
}

func NewRenderer(raster Rasterizer, printer Printer) *Renderer {
	return &Renderer{
		raster:  raster,
		printer: printer,
		page:    A4,
		tracer:  otel.Tracer("github.com/ailutions/ailutions-site/internal/report"),
	}
}

// Render lays out doc, rasterizes it and prints the paged raster. It refuses
// an empty document and an empty raster with ErrEmptyRenderTarget.
func (r *Renderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	ctx, span := r.tracer.Start(ctx, "report.render", trace.WithAttributes(
		attribute.String("report.type", string(doc.Type)),
	))
	defer span.End()

	pdf, err := r.render(ctx, span, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("report.bytes", len(pdf)))
	return pdf, nil
}

func (r *Renderer) render(ctx context.Context, span trace.Span, doc Document) ([]byte, error) {
	if doc.Empty() {
		return nil, ErrEmptyRenderTarget
	}
	htmlDoc, err := BuildHTML(doc)
	if err != nil {
		return nil, err
	}

	png, err := r.raster.Rasterize(ctx, htmlDoc, RenderTarget, RasterScale)
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", doc.Type, err)
	}
	if len(png) == 0 {
		return nil, ErrEmptyRenderTarget
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, ErrEmptyRenderTarget
	}

	layout := LayoutFor(doc.Type, cfg.Width, cfg.Height, r.page)
	log.Debug().
		Str("type", string(doc.Type)).
		Int("raster_w", cfg.Width).
		Int("raster_h", cfg.Height).
		Int("pages", layout.Pages()).
		Msg("report laid out")
	span.SetAttributes(attribute.Int("report.pages", layout.Pages()))

	pdf, err := r.printer.PrintPDF(ctx, PagedHTML(layout, png), r.page)
	if err != nil {
		return nil, fmt.Errorf("print %s: %w", doc.Type, err)
	}
	return pdf, nil
}
