package maturity

import (
	"errors"
	"fmt"
)

var (
	ErrUnanswered      = errors.New("maturity: current question has no answer")
	ErrNoMoreQuestions = errors.New("maturity: already at the last question")
)

// Session walks one user through the survey a question at a time. Going back
// never forgets an answer; it only makes the earlier question editable again.
type Session struct {
	survey  Survey
	answers Answers
	pos     int
	keys    []Key
}

func NewSession(s Survey) *Session {
	keys := make([]Key, 0, s.QuestionCount())
	for si, sec := range s.Sections {
		for qi := range sec.Questions {
			keys = append(keys, Key{Section: si, Question: qi})
		}
	}
	return &Session{survey: s, answers: Answers{}, keys: keys}
}

// Current is the question the user is on.
func (s *Session) Current() Key {
	return s.keys[s.pos]
}

func (s *Session) Question() (Section, string) {
	k := s.Current()
	sec := s.survey.Sections[k.Section]
	return sec, sec.Questions[k.Question]
}

// Answer records (or overwrites) the answer to the current question.
func (s *Session) Answer(value int) error {
	if value < 0 || value > MaxAnswer {
		return fmt.Errorf("%w: must be between 0 and %d, got %d", ErrInvalidAnswer, MaxAnswer, value)
	}
	s.answers[s.Current()] = value
	return nil
}

func (s *Session) Next() error {
	if _, ok := s.answers[s.Current()]; !ok {
		return ErrUnanswered
	}
	if s.pos == len(s.keys)-1 {
		return ErrNoMoreQuestions
	}
	s.pos++
	return nil
}

// Back moves to the previous question and reports whether it moved.
func (s *Session) Back() bool {
	if s.pos == 0 {
		return false
	}
	s.pos--
	return true
}

// Progress is the answered fraction in [0, 1].
func (s *Session) Progress() float64 {
	return float64(len(s.answers)) / float64(len(s.keys))
}

func (s *Session) Complete() bool {
	return len(s.answers) == len(s.keys)
}

func (s *Session) Answers() Answers {
	out := make(Answers, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s *Session) Result() (Result, error) {
	return Score(s.answers, s.survey)
}
