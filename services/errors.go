package services

import (
	"errors"
	"fmt"
)

// Stable classifications for failures detected during request validation.
const (
	ClassBadRequest        = "BAD_REQUEST"
	ClassReferenceNotFound = "REFERENCE_NOT_FOUND"
	ClassReferenceConflict = "REFERENCE_CONFLICT"
)

// RequestError is a validation failure found before any record was
// written. Fully recoverable; nothing needs to be undone.
type RequestError struct {
	Class   string
	Message string
	Detail  string
}

func (e *RequestError) Error() string {
	return e.Message + ": " + e.Detail
}

func badRequest(message, detail string) *RequestError {
	return &RequestError{Class: ClassBadRequest, Message: message, Detail: detail}
}

func referenceNotFound(message, detail string) *RequestError {
	return &RequestError{Class: ClassReferenceNotFound, Message: message, Detail: detail}
}

func referenceConflict(message, detail string) *RequestError {
	return &RequestError{Class: ClassReferenceConflict, Message: message, Detail: detail}
}

var (
	ErrNoteNotFound = errors.New("sales note not found")

	// ErrArtifactMissing means the note exists but its archived document
	// does not, which can happen when a creation faulted between the
	// record writes and the archive write.
	ErrArtifactMissing = errors.New("archived document missing")
)

// CommunicationError marks a collaborator that was unreachable or
// answered outside its contract.
type CommunicationError struct {
	Collaborator string
	Err          error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("%s service communication failure: %v", e.Collaborator, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }
