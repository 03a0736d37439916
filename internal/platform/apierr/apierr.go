package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes for the failure modes the API distinguishes to callers.
const (
	CodeNotFound            = "not_found"
	CodeNotEnrolled         = "not_enrolled"
	CodeNotEligible         = "not_eligible"
	CodeDuplicateEnrollment = "duplicate_enrollment"
	CodeDuplicateReview     = "duplicate_review"
	CodeSelfVote            = "self_vote"
	CodeUnauthorized        = "unauthorized"
	CodeForbidden           = "forbidden"
	CodeInvalidInput        = "invalid_input"
	CodeInternal            = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", what))
}

func NotEnrolled() *Error {
	return New(http.StatusForbidden, CodeNotEnrolled, errors.New("not enrolled in this formation"))
}

func NotEligible(reason string) *Error {
	return New(http.StatusConflict, CodeNotEligible, errors.New(reason))
}

func Duplicate(code, reason string) *Error {
	return New(http.StatusConflict, code, errors.New(reason))
}

func Unauthorized(reason string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, errors.New(reason))
}

func Forbidden(reason string) *Error {
	return New(http.StatusForbidden, CodeForbidden, errors.New(reason))
}

func Invalid(reason string) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, errors.New(reason))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// From extracts an *Error from err's chain, wrapping unknown failures as a
// generic server error so handlers never leak raw infrastructure errors.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
