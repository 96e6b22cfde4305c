package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
)

type samplePayload struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"action" validate:"required,oneof=newRegistration newCourse"`
	Name   string `json:"full_name" validate:"required_if=Action newRegistration"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(New(), samplePayload{Email: "nope", Action: "newRegistration"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "must be a valid email address", appErr.Fields["email"])
	assert.Equal(t, "is required", appErr.Fields["full_name"])
	assert.NotContains(t, appErr.Fields, "action")
}

func TestStructPasses(t *testing.T) {
	assert.NoError(t, Struct(New(), samplePayload{Email: "a@b.co", Action: "newCourse"}))
}

func TestStructOneOf(t *testing.T) {
	err := Struct(New(), samplePayload{Email: "a@b.co", Action: "other"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "must be one of [newRegistration newCourse]", appErr.Fields["action"])
}
