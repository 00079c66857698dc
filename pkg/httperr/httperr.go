package httperr

import "errors"

type BadRequestError struct {
	msg string
}

func (e *BadRequestError) Error() string { return e.msg }

func NewBadRequest(msg string) error { return &BadRequestError{msg: msg} }

func IsBadRequest(err error) bool {
	var target *BadRequestError
	return errors.As(err, &target)
}

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func NewNotFound(msg string) error { return &NotFoundError{msg: msg} }

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

type ForbiddenError struct {
	msg string
}

func (e *ForbiddenError) Error() string { return e.msg }

func NewForbidden(msg string) error { return &ForbiddenError{msg: msg} }

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// UpstreamError marks a collaborator failure the caller may retry.
type UpstreamError struct {
	msg string
}

func (e *UpstreamError) Error() string { return e.msg }

func NewUpstream(msg string) error { return &UpstreamError{msg: msg} }

func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}
