package maturity

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// MaxAnswer is the highest ordinal on the answer scale (Excellent).
const MaxAnswer = 3

//go:embed survey.yaml
var defaultSurveyYAML []byte

type ScaleOption struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Section struct {
	Key         string   `yaml:"key" json:"key"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Questions   []string `yaml:"questions" json:"questions"`
}

// Survey is the fixed list of sections a maturity assessment walks through.
type Survey struct {
	Scale    []ScaleOption `yaml:"scale" json:"scale"`
	Sections []Section     `yaml:"sections" json:"sections"`
}

// QuestionCount is the number of questions across all sections.
func (s Survey) QuestionCount() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Questions)
	}
	return n
}

func ParseSurvey(data []byte) (Survey, error) {
	var s Survey
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Survey{}, fmt.Errorf("parse survey: %w", err)
	}
	if err := s.validate(); err != nil {
		return Survey{}, err
	}
	return s, nil
}

func (s Survey) validate() error {
	if len(s.Sections) == 0 {
		return fmt.Errorf("survey has no sections")
	}
	if len(s.Scale) != MaxAnswer+1 {
		return fmt.Errorf("survey scale must have %d options, got %d", MaxAnswer+1, len(s.Scale))
	}
	for i, opt := range s.Scale {
		if opt.Value != i {
			return fmt.Errorf("survey scale option %d has value %d", i, opt.Value)
		}
	}
	seen := map[string]bool{}
	for i, sec := range s.Sections {
		key := strings.TrimSpace(sec.Key)
		if key == "" || strings.TrimSpace(sec.Name) == "" {
			return fmt.Errorf("section %d needs a key and a name", i)
		}
		if seen[key] {
			return fmt.Errorf("duplicate section key %q", key)
		}
		seen[key] = true
		if len(sec.Questions) == 0 {
			return fmt.Errorf("section %q has no questions", key)
		}
	}
	return nil
}

var (
	defaultOnce   sync.Once
	defaultSurvey Survey
)

// DefaultSurvey returns the built-in six-section survey.
func DefaultSurvey() Survey {
	defaultOnce.Do(func() {
		s, err := ParseSurvey(defaultSurveyYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded survey.yaml: %v", err))
		}
		defaultSurvey = s
	})
	return defaultSurvey
}
