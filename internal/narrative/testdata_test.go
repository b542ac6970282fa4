package narrative

import (
	"context"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const validNarrative = `{
	"executiveSummary": "You have solid processes but data still lives in silos.",
	"personalizedRecommendations": [
		{"title": "Connect your CRM and invoicing", "description": "Stop re-keying customer data."},
		{"title": "Automate weekly reporting", "description": "Build one dashboard the team trusts."},
		{"title": "Name an automation owner", "description": "Give one person time to drive it."}
	],
	"actionPlan": [
		{"step": "Quick win: invoice reminders", "description": "Turn on automatic reminders this week."},
		{"step": "Integrate systems", "description": "Link CRM and accounting within 90 days."}
	]
}`

// mockMessager implements AnthropicMessager for testing.
type mockMessager struct {
	response *anthropic.Message
	err      error
	params   anthropic.MessageNewParams
	calls    int
}

func (m *mockMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	m.calls++
	m.params = params
	return m.response, m.err
}

func newMockMessage(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: text},
		},
	}
}

func withMockClient(mock *mockMessager) func() {
	old := newAnthropicClient
	newAnthropicClient = func(_ string) AnthropicMessager { return mock }
	return func() { newAnthropicClient = old }
}

type stubCaller struct {
	text   string
	err    error
	prompt string
	calls  int
	block  bool
}

func (s *stubCaller) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func sampleResults() *SurveyResults {
	return &SurveyResults{
		Score:         66.67,
		MaturityStage: StageRef{Name: "Established"},
		CategoryScores: map[string]CategoryScore{
			"strategy": {Name: "Strategy & Leadership", Score: 6.7},
			"data":     {Name: "Data & Analytics", Score: 4.4},
			"people":   {Name: "People & Culture", Score: 8.9},
		},
	}
}
