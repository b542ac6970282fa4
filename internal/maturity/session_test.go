package maturity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWalk(t *testing.T) {
	s := NewSession(DefaultSurvey())
	assert.Equal(t, Key{}, s.Current())
	assert.False(t, s.Back())

	require.ErrorIs(t, s.Next(), ErrUnanswered)
	require.ErrorIs(t, s.Answer(7), ErrInvalidAnswer)

	require.NoError(t, s.Answer(1))
	require.NoError(t, s.Next())
	assert.Equal(t, Key{Section: 0, Question: 1}, s.Current())

	assert.True(t, s.Back())
	require.NoError(t, s.Answer(3))
	assert.Equal(t, 3, s.Answers()[Key{}])

	total := DefaultSurvey().QuestionCount()
	for i := 0; i < total-1; i++ {
		require.NoError(t, s.Next())
		require.NoError(t, s.Answer(2))
	}
	assert.ErrorIs(t, s.Next(), ErrNoMoreQuestions)
	assert.True(t, s.Complete())
	assert.Equal(t, 1.0, s.Progress())

	sec, q := s.Question()
	assert.Equal(t, "people", sec.Key)
	assert.NotEmpty(t, q)

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, "Established", res.Stage.Name)
}

func TestSessionResultIncomplete(t *testing.T) {
	s := NewSession(DefaultSurvey())
	require.NoError(t, s.Answer(2))
	assert.InDelta(t, 1.0/18, s.Progress(), 1e-9)
	_, err := s.Result()
	assert.ErrorIs(t, err, ErrIncompleteSurvey)
}
