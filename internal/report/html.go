package report

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed report.css
var reportCSS string

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderTarget is the element the rasterizer captures.
const RenderTarget = "#report"

// BuildHTML lays the document out as a standalone page whose #report element
// is the render target.
func BuildHTML(doc Document) (string, error) {
	var content bytes.Buffer
	if err := markdown.Convert([]byte(doc.Body), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	company := strings.TrimSpace(doc.Company)
	if company == "" {
		company = fallbackCompany
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(doc.Type.Title()) + "</title>" +
		"<style>" + reportCSS + "</style></head><body>" +
		"<div id='report'><div class='report-header'>" +
		"<h1>" + html.EscapeString(doc.Type.Title()) + "</h1>" +
		"<div class='report-meta'><strong>Prepared for:</strong> " + html.EscapeString(company) +
		" &middot; " + html.EscapeString(doc.Date.Format("January 2, 2006")) + "</div>" +
		"</div><div class='report-html'>" + content.String() + "</div>" +
		"<div class='report-footer'>Ailutions &middot; ailutions.com</div>" +
		"</div></body></html>", nil
}

// PagedHTML builds one fixed-size page per placement. Every page shows the
// same PNG, shifted by its offset and clipped to the page.
func PagedHTML(layout Layout, png []byte) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset='utf-8'><style>")
	fmt.Fprintf(&b, "@page{size:%smm %smm;margin:0;}", mm(layout.Page.Width), mm(layout.Page.Height))
	b.WriteString("html,body{margin:0;padding:0;}")
	fmt.Fprintf(&b, ".page{position:relative;overflow:hidden;width:%smm;height:%smm;break-after:page;page-break-after:always;}",
		mm(layout.Page.Width), mm(layout.Page.Height))
	b.WriteString(".page:last-child{break-after:auto;page-break-after:auto;}")
	fmt.Fprintf(&b, ".shot{position:absolute;width:%smm;height:%smm;background-image:url(data:image/png;base64,%s);background-size:100%% 100%%;background-repeat:no-repeat;}",
		mm(layout.Width), mm(layout.Height), base64.StdEncoding.EncodeToString(png))
	b.WriteString("</style></head><body>")
	for _, p := range layout.Placements {
		fmt.Fprintf(&b, "<div class='page' data-page='%d'><div class='shot' style='left:%smm;top:%smm'></div></div>",
			p.Page, mm(p.OffsetX), mm(p.OffsetY))
	}
	b.WriteString("</body></html>")
	return b.String()
}

func mm(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
