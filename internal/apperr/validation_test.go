package apperr

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationListsFields(t *testing.T) {
	type form struct {
		Name  string `validate:"required"`
		Count int    `validate:"gte=1"`
	}
	err := validator.New().Struct(form{})
	require.Error(t, err)

	ae := Validation(err)
	assert.Equal(t, CodeInvalidArgument, ae.Code)
	assert.Contains(t, ae.Message, "Name failed required")
	assert.Contains(t, ae.Message, "Count failed gte=1")
}

func TestValidationPassThrough(t *testing.T) {
	assert.Nil(t, Validation(nil))
	ae := Validation(errors.New("plain"))
	assert.Equal(t, "plain", ae.Message)
}
