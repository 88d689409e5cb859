package services

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnavailable marks a failure of the object store or the metadata store.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrSessionNotFound is returned for unknown or expired upload sessions.
	ErrSessionNotFound = errors.New("upload session not found")
	// ErrUnsupportedFile is returned for anything but .jpg/.jpeg uploads.
	ErrUnsupportedFile = errors.New("only .jpg and .jpeg files are accepted")
	// ErrEmptyFile is returned for zero-byte uploads.
	ErrEmptyFile = errors.New("uploaded file is empty")
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("uploaded file is too large")
)

type unavailableError struct {
	cause error
}

func (e unavailableError) Error() string        { return e.cause.Error() }
func (e unavailableError) Unwrap() error        { return e.cause }
func (e unavailableError) Is(target error) bool { return target == ErrUnavailable }

// unavailable classifies err as a collaborator failure while keeping the cause reachable.
func unavailable(err error, message string) error {
	return errors.Wrap(unavailableError{cause: err}, message)
}
