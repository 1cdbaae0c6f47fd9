package services

import (
	"context"
	"strings"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/pkg/validator"
)

// Enum tags shared by services and request structs.
const (
	roleTag         = "projectrole"
	taskStatusTag   = "taskstatus"
	taskPriorityTag = "taskpriority"
)

func init() {
	validator.MustRegisterEnum(roleTag,
		string(models.RoleOwner), string(models.RoleMember), string(models.RoleQA))
	validator.MustRegisterEnum(taskStatusTag,
		string(models.TaskStatusTodo), string(models.TaskStatusInProgress),
		string(models.TaskStatusInReview), string(models.TaskStatusDone))
	validator.MustRegisterEnum(taskPriorityTag,
		string(models.PriorityLow), string(models.PriorityMedium), string(models.PriorityHigh))
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailLocalPart returns the part of an address before '@'.
func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

func normaliseIDs(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func optionalID(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
