package services

import (
	"errors"
	"net/http"

	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.NotFound("user")
	// ErrUserExists is returned by owner signup for a known email.
	ErrUserExists = apperrors.NewConflict("User already exists")
	// ErrProjectNotFound indicates the requested project does not exist.
	ErrProjectNotFound = apperrors.NotFound("project")
	// ErrProjectIDRequired is the shared validation error for project scoped calls.
	ErrProjectIDRequired = apperrors.NewBadRequest("Project ID is required")
	// ErrTaskNotFound indicates the requested task does not exist.
	ErrTaskNotFound = apperrors.NotFound("task")
	// ErrInviteNotFound covers unknown, consumed and cancelled invite codes.
	ErrInviteNotFound = apperrors.New("INVITE_NOT_FOUND", "Invalid or expired invite code", http.StatusNotFound)
	// ErrInviteIDNotFound is returned when cancelling an unknown invite.
	ErrInviteIDNotFound = apperrors.NotFound("invite")
	// ErrInviteExpired signals an invite that was still pending past its expiry.
	ErrInviteExpired = apperrors.New("INVITE_EXPIRED", "Invite code has expired", http.StatusBadRequest)
	// ErrAlreadyTeamMember is returned when inviting an existing member.
	ErrAlreadyTeamMember = apperrors.NewConflict("User is already a team member")
)

// storeError converts a repository error into an AppError. Missing records
// map to notFound when given; every other failure becomes a 500 carrying
// message.
func storeError(err error, notFound *apperrors.AppError, message string) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(err, message)
}
