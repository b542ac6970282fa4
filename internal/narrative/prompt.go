package narrative

import (
	"fmt"
	"sort"
	"strings"
)

const systemPrompt = "You are a digital transformation consultant writing for small and mid-sized business owners. Respond with strict JSON only."

// BuildPrompt embeds the overall score, stage and every category score.
// Categories are listed by name so the same results always give the same
// prompt.
func BuildPrompt(res SurveyResults) string {
	cats := make([]CategoryScore, 0, len(res.CategoryScores))
	for key, c := range res.CategoryScores {
		if c.Name == "" {
			c.Name = key
		}
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })

	var b strings.Builder
	b.WriteString("A company has completed a digital maturity assessment.\n\n")
	fmt.Fprintf(&b, "Overall score: %.0f%%\n", res.Score)
	fmt.Fprintf(&b, "Maturity stage: %s\n\n", res.MaturityStage.Name)
	b.WriteString("Category scores (out of 10):\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "- %s: %.1f\n", c.Name, c.Score)
	}
	b.WriteString(`
Write a personalized narrative for this company. Return exactly one JSON object with these keys and nothing else:
{
  "executiveSummary": "one paragraph summarizing where the company stands",
  "personalizedRecommendations": [
    {"title": "...", "description": "..."}
  ],
  "actionPlan": [
    {"step": "...", "description": "..."}
  ]
}
Rules:
- personalizedRecommendations must contain exactly 3 items that address the weakest categories first.
- actionPlan must contain 2 or 3 items. The first step must be a quick win achievable within 30 days.
- Do not wrap the JSON in markdown.`)
	return b.String()
}
