package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ailutions/ailutions-site/internal/maturity"
	"github.com/ailutions/ailutions-site/internal/narrative"
	"github.com/ailutions/ailutions-site/internal/readiness"
	"github.com/ailutions/ailutions-site/internal/roi"
)

// Document is one report ready to be laid out. Body is GitHub-flavoured
// markdown.
type Document struct {
	Type    Type
	Company string
	Date    time.Time
	Body    string
}

func (d Document) Filename() string {
	return Filename(d.Type, d.Company, d.Date)
}

func (d Document) Empty() bool {
	return strings.TrimSpace(d.Body) == ""
}

func MaturityDocument(company string, res maturity.Result, story *narrative.Report, date time.Time) Document {
	var b strings.Builder
	fmt.Fprintf(&b, "## Overall maturity: %.0f%% (%s)\n\n", res.OverallPercentage, res.Stage.Name)
	b.WriteString(res.Stage.Description + "\n\n")

	b.WriteString("### Category scores\n\n| Category | Score (out of 10) |\n|---|---|\n")
	for _, c := range res.Categories {
		fmt.Fprintf(&b, "| %s | %.1f |\n", cell(c.Name), c.Score)
	}
	b.WriteString("\n")

	writeList(&b, "Strengths", res.Strengths, "No category scored 8 or above yet.")
	writeList(&b, "Challenges", res.Challenges, "No category scored below 5.")

	if story != nil {
		b.WriteString("### Executive summary\n\n" + story.ExecutiveSummary + "\n\n")
		b.WriteString("### Personalized recommendations\n\n")
		for i, r := range story.PersonalizedRecommendations {
			fmt.Fprintf(&b, "%d. **%s** %s\n", i+1, r.Title, r.Description)
		}
		b.WriteString("\n### Action plan\n\n")
		for i, s := range story.ActionPlan {
			fmt.Fprintf(&b, "%d. **%s** %s\n", i+1, s.Step, s.Description)
		}
		b.WriteString("\n")
	} else {
		writeList(&b, "Recommendations", res.Recommendations, "")
	}
	return Document{Type: DigitalMaturity, Company: company, Date: date, Body: b.String()}
}

func ReadinessDocument(company string, res readiness.Result, date time.Time) Document {
	var b strings.Builder
	fmt.Fprintf(&b, "## Readiness score: %d/100 (%s)\n\n", res.ReadinessScore, res.ReadinessLevel)
	fmt.Fprintf(&b, "- Tasks analyzed: %d\n", res.TotalTasks)
	fmt.Fprintf(&b, "- Hours spent per year: %.1f\n", res.TotalAnnualHours)
	fmt.Fprintf(&b, "- High-priority tasks: %d\n", res.HighPriorityTaskCount)
	fmt.Fprintf(&b, "- Estimated annual cost: $%s\n\n", thousands(int64(res.EstimatedAnnualCostUSD)))

	b.WriteString("### Top automation candidates\n\n")
	for i, t := range res.TopCandidates {
		fmt.Fprintf(&b, "%d. **%s** (%s, score %d)\n", i+1, t.TaskName, t.Frequency.Label(), t.Score)
	}

	b.WriteString("\n### All tasks\n\n| Task | Who | Frequency | Minutes | Hours/year | Priority | Score |\n|---|---|---|---|---|---|---|\n")
	for _, t := range res.Tasks {
		fmt.Fprintf(&b, "| %s | %s | %s | %.0f | %.1f | %s | %d |\n",
			cell(t.TaskName), cell(t.WhoHandles), t.Frequency.Label(), t.TimeSpentMinutes.Minutes(), t.AnnualHours(), t.Priority(), t.Score)
	}
	return Document{Type: AutomationReadiness, Company: company, Date: date, Body: b.String()}
}

func ROIDocument(company string, in roi.Inputs, res roi.Result, date time.Time) Document {
	d := res.Display()
	var b strings.Builder
	fmt.Fprintf(&b, "## Projected annual savings: $%s\n\n", thousands(d.YearlySavings))
	fmt.Fprintf(&b, "%d employees in %s automating %.0f%% of %.1f manual hours a day.\n\n",
		in.Employees, in.Industry.Label(), in.AutomationPercentage, in.ManualHoursPerDay)

	b.WriteString("| Metric | Value |\n|---|---|\n")
	rows := []struct {
		label string
		value string
	}{
		{"Hourly rate", "$" + thousands(d.HourlyRate)},
		{"Daily savings", "$" + thousands(d.DailySavings)},
		{"Monthly savings", "$" + thousands(d.MonthlySavings)},
		{"Payback period", fmt.Sprintf("%.1f months", d.PaybackMonths)},
		{"3-year savings", "$" + thousands(d.ThreeYearSavings)},
		{"3-year net ROI", "$" + thousands(d.NetROI)},
		{"ROI", fmt.Sprintf("%d%%", d.ROIPercentage)},
		{"Error reduction (est.)", "$" + thousands(d.ErrorReduction)},
		{"Productivity gain (est.)", "$" + thousands(d.ProductivityIncrease)},
		{"Total annual benefit", "$" + thousands(d.TotalAnnualBenefit)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.label, r.value)
	}
	return Document{Type: ROI, Company: company, Date: date, Body: b.String()}
}

func writeList(b *strings.Builder, title string, items []string, empty string) {
	if len(items) == 0 && empty == "" {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	if len(items) == 0 {
		b.WriteString(empty + "\n\n")
		return
	}
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
	b.WriteString("\n")
}

func cell(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func thousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}
