package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ailutions/ailutions-site/internal/narrative"
	"github.com/ailutions/ailutions-site/internal/readiness"
	"github.com/ailutions/ailutions-site/internal/report"
	"github.com/ailutions/ailutions-site/internal/roi"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type pdfRenderer interface {
	Render(ctx context.Context, doc report.Document) ([]byte, error)
}

type renderOptions struct {
	input      string
	company    string
	narrative  string
	outDir     string
	format     string
	date       string
	chromePath string
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render <maturity|readiness|roi>",
		Short: "Render a report as PDF, HTML or markdown",
		Example: `  assess render maturity --input answers.json --company Acme
  assess render roi --input roi.json --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := report.ParseType(args[0])
			if err != nil {
				return err
			}
			date := time.Now()
			if opts.date != "" {
				if date, err = time.Parse("2006-01-02", opts.date); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}
			doc, err := a.buildDocument(t, opts, date)
			if err != nil {
				return err
			}

			var (
				body []byte
				name = doc.Filename()
			)
			switch opts.format {
			case "markdown":
				body, name = []byte(doc.Body), trimExt(name)+".md"
			case "html":
				html, err := report.BuildHTML(doc)
				if err != nil {
					return err
				}
				body, name = []byte(html), trimExt(name)+".html"
			case "pdf":
				body, err = a.newRenderer(opts.chromePath).Render(cmd.Context(), doc)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown --format %q (pdf, html, markdown)", opts.format)
			}

			out := filepath.Join(opts.outDir, name)
			if err := a.fs.MkdirAll(opts.outDir, 0o755); err != nil {
				return err
			}
			if err := afero.WriteFile(a.fs, out, body, 0o644); err != nil {
				return err
			}
			log.Info().Str("file", out).Int("bytes", len(body)).Msg("report written")
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.input, "input", "", "tool input JSON (answers, worksheet or ROI inputs)")
	cmd.Flags().StringVar(&opts.company, "company", "", "company name for the title and filename")
	cmd.Flags().StringVar(&opts.narrative, "narrative", "", "optional AI narrative JSON to include in the maturity report")
	cmd.Flags().StringVar(&opts.outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&opts.format, "format", "pdf", "pdf, html or markdown")
	cmd.Flags().StringVar(&opts.date, "date", "", "report date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.chromePath, "chrome", "", "Chromium executable (default: auto-detect)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (a *app) buildDocument(t report.Type, opts renderOptions, date time.Time) (report.Document, error) {
	switch t {
	case report.DigitalMaturity:
		sf, res, err := a.loadSurvey(opts.input)
		if err != nil {
			return report.Document{}, err
		}
		var story *narrative.Report
		if opts.narrative != "" {
			story = new(narrative.Report)
			if err := a.readJSON(opts.narrative, story); err != nil {
				return report.Document{}, err
			}
		}
		return report.MaturityDocument(companyOr(opts.company, sf.CompanyName), res, story, date), nil

	case report.AutomationReadiness:
		ws, err := a.loadWorksheet(opts.input)
		if err != nil {
			return report.Document{}, err
		}
		res, ok := readiness.Analyze(ws.Tasks)
		if !ok {
			return report.Document{}, report.ErrEmptyRenderTarget
		}
		return report.ReadinessDocument(companyOr(opts.company, ws.CompanyName), res, date), nil

	default:
		var req struct {
			roi.Inputs
			CompanyName string `json:"companyName"`
		}
		if err := a.readJSON(opts.input, &req); err != nil {
			return report.Document{}, err
		}
		res, err := roi.Project(req.Inputs)
		if err != nil {
			return report.Document{}, err
		}
		return report.ROIDocument(companyOr(opts.company, req.CompanyName), req.Inputs, res, date), nil
	}
}

func companyOr(flag, fromFile string) string {
	if flag != "" {
		return flag
	}
	return fromFile
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
