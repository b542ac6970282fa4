// Package report renders assessment results to downloadable PDFs. A report
// is laid out once as HTML, rasterized at print scale, and the raster is
// paged by placing it at successive negative offsets.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrEmptyRenderTarget = errors.New("report: nothing to render")

type Type string

const (
	DigitalMaturity     Type = "Digital-Maturity-Report"
	AutomationReadiness Type = "Automation-Readiness-Report"
	ROI                 Type = "ROI-Report"
)

var Types = []Type{DigitalMaturity, AutomationReadiness, ROI}

// ParseType accepts the canonical name or a short slug
// (maturity, readiness, roi).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "maturity", strings.ToLower(string(DigitalMaturity)):
		return DigitalMaturity, nil
	case "readiness", strings.ToLower(string(AutomationReadiness)):
		return AutomationReadiness, nil
	case "roi", strings.ToLower(string(ROI)):
		return ROI, nil
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

func (t Type) MultiPage() bool {
	return t != ROI
}

func (t Type) Title() string {
	switch t {
	case DigitalMaturity:
		return "Digital Maturity Report"
	case AutomationReadiness:
		return "Automation Readiness Report"
	case ROI:
		return "Automation ROI Report"
	}
	return string(t)
}

const fallbackCompany = "Company"

// Filename builds <ReportType>-<Company>-<YYYY-MM-DD>.pdf. A blank company
// becomes the literal "Company".
func Filename(t Type, company string, date time.Time) string {
	c := strings.TrimSpace(company)
	if c == "" {
		c = fallbackCompany
	}
	return fmt.Sprintf("%s-%s-%s.pdf", sanitizeFilename(string(t)), sanitizeFilename(c), date.Format("2006-01-02"))
}

func sanitizeFilename(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "report"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, v)
}
