package maturity

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StrengthThreshold  = 8.0
	ChallengeThreshold = 5.0
)

var (
	ErrIncompleteSurvey = errors.New("maturity: survey is incomplete")
	ErrInvalidAnswer    = errors.New("maturity: invalid answer")
)

// CategoryScore is a section's normalized score on a 0-10 scale.
type CategoryScore struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Result is the derived outcome of one completed survey.
type Result struct {
	OverallPercentage float64                  `json:"score"`
	Categories        []CategoryScore          `json:"categories"`
	CategoryScores    map[string]CategoryScore `json:"categoryScores"`
	Stage             Stage                    `json:"maturityStage"`
	Strengths         []string                 `json:"strengths"`
	Challenges        []string                 `json:"challenges"`
	Recommendations   []string                 `json:"recommendations"`
}

// Score aggregates a fully answered survey. Incomplete submissions are
// rejected rather than scored as zero, and so are ordinals outside 0..3 or
// keys that do not address a survey question.
func Score(answers Answers, s Survey) (Result, error) {
	if err := checkAnswers(answers, s); err != nil {
		return Result{}, err
	}

	res := Result{
		Categories:     make([]CategoryScore, 0, len(s.Sections)),
		CategoryScores: make(map[string]CategoryScore, len(s.Sections)),
		Strengths:      []string{},
		Challenges:     []string{},
	}
	var sum float64
	for si, sec := range s.Sections {
		total := 0
		for qi := range sec.Questions {
			total += answers[Key{Section: si, Question: qi}]
		}
		score := 10 * float64(total) / float64(MaxAnswer*len(sec.Questions))
		cs := CategoryScore{Key: sec.Key, Name: sec.Name, Score: score}
		res.Categories = append(res.Categories, cs)
		res.CategoryScores[sec.Key] = cs
		sum += score

		if score >= StrengthThreshold {
			res.Strengths = append(res.Strengths, sec.Name)
		}
		if score < ChallengeThreshold {
			res.Challenges = append(res.Challenges, sec.Name)
		}
	}
	res.OverallPercentage = 100 * sum / (10 * float64(len(s.Sections)))
	res.Stage = StageFor(res.OverallPercentage)
	res.Recommendations = append([]string(nil), res.Stage.Recommendations...)
	return res, nil
}

func checkAnswers(answers Answers, s Survey) error {
	for k, v := range answers {
		if k.Section < 0 || k.Question < 0 || k.Section >= len(s.Sections) || k.Question >= len(s.Sections[k.Section].Questions) {
			return fmt.Errorf("%w: %s does not match a survey question", ErrInvalidAnswer, k)
		}
		if v < 0 || v > MaxAnswer {
			return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrInvalidAnswer, k, MaxAnswer, v)
		}
	}
	if missing := answers.Missing(s); len(missing) > 0 {
		return fmt.Errorf("%w: %d unanswered (%s)", ErrIncompleteSurvey, len(missing), strings.Join(sortedKeys(missing), ", "))
	}
	return nil
}
