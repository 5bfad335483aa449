package services

import (
	"errors"
	"fmt"
)

// Domain errors returned by services. Handlers map these to HTTP statuses.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrThreadNotFound       = errors.New("chat thread not found")
	ErrHouseholdNotFound    = errors.New("household not found")
	ErrMCHRecordNotFound    = errors.New("mch record not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("an account with this email or username already exists")

	ErrAlreadyClaimed = errors.New("consultation already claimed by another doctor")
	ErrNotAssigned    = errors.New("consultation is not under review by this doctor")

	ErrEmptyMessage   = errors.New("message must contain text or a file")
	ErrNotADoctor     = errors.New("user is not a doctor")
	ErrSelfThread     = errors.New("cannot open a chat thread with yourself")
	ErrFileRequired   = errors.New("file upload is required")
	ErrUploadTooLarge = errors.New("uploaded file is too large")
)

// PermissionError carries who attempted what on which resource.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// IsPermissionError reports whether err is a permission denial.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
