package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	appValidator "github.com/OluRemiFour/OctoOps-backend/pkg/validator"
)

func TestFormatValidationError(t *testing.T) {
	err := appValidator.ValidationErrors{
		{Field: "email", Tag: "required"},
		{Field: "inviteCode", Tag: "max", Param: "128"},
		{Field: "role", Tag: "projectrole"},
		{Field: "status", Tag: "taskstatus"},
		{Field: "dueDate", Tag: "datetime", Param: "2006-01-02"},
	}

	msg := formatValidationError(err)
	assert.Contains(t, msg, "is required")
	assert.Contains(t, msg, "must be at most 128 characters")
	assert.Contains(t, msg, "must be one of: owner, member, qa")
	assert.Contains(t, msg, "must be one of: todo, in-progress, in-review, done")
	assert.Contains(t, msg, "failed validation: datetime=2006-01-02")
}

func TestFormatValidationErrorFallbacks(t *testing.T) {
	assert.Equal(t, "invalid request payload", formatValidationError(nil))
	assert.Equal(t, "invalid request payload", formatValidationError(appValidator.ValidationErrors{}))
	assert.Equal(t, "invalid request payload", formatValidationError(errors.New("boom")))
}
