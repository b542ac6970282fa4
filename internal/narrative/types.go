// Package narrative turns a scored maturity survey into a short written
// report by asking a generative model for a structured JSON narrative.
package narrative

// Request is the body of a narrative generation call. Answers is passed
// through opaquely; only Results feeds the prompt.
type Request struct {
	Answers map[string]any `json:"answers"`
	Results *SurveyResults `json:"results"`
}

type SurveyResults struct {
	Score          float64                  `json:"score"`
	MaturityStage  StageRef                 `json:"maturityStage"`
	CategoryScores map[string]CategoryScore `json:"categoryScores"`
}

type StageRef struct {
	Name string `json:"name"`
}

type CategoryScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Missing lists the required request fields that are absent.
func (r Request) Missing() []string {
	var out []string
	if r.Answers == nil {
		out = append(out, "answers")
	}
	if r.Results == nil {
		out = append(out, "results")
	}
	return out
}

type Report struct {
	ExecutiveSummary            string           `json:"executiveSummary" validate:"required"`
	PersonalizedRecommendations []Recommendation `json:"personalizedRecommendations" validate:"len=3,dive"`
	ActionPlan                  []ActionStep     `json:"actionPlan" validate:"min=2,max=3,dive"`
}

type Recommendation struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type ActionStep struct {
	Step        string `json:"step" validate:"required"`
	Description string `json:"description" validate:"required"`
}
