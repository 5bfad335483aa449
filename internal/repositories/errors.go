package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")

	// ErrAlreadyClaimed is returned when a claim races and another doctor
	// already holds the consultation.
	ErrAlreadyClaimed = errors.New("consultation already claimed")

	// ErrNotAssigned is returned when a doctor responds to a consultation
	// that is not under review by them.
	ErrNotAssigned = errors.New("consultation not assigned to doctor")
)

// IsNotFoundError reports whether the error means a missing record,
// whichever layer produced it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether the error means a unique constraint
// violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
