package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodePrecondition Code = "PRECONDITION_FAILED"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeNetwork      Code = "NETWORK_ERROR"
	CodeServer       Code = "SERVER_ERROR"
	CodeGateway      Code = "GATEWAY_ERROR"
)

// Metadata describes how a code should be surfaced to the person driving the UI.
type Metadata struct {
	Retryable   bool
	UserMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:   false,
		UserMessage: "please check the submitted values",
	},
	CodePrecondition: {
		Retryable:   false,
		UserMessage: "a required step has not been completed",
	},
	CodeUnauthorized: {
		Retryable:   false,
		UserMessage: "please log in to continue",
	},
	CodeForbidden: {
		Retryable:   false,
		UserMessage: "you do not have access to this resource",
	},
	CodeNotFound: {
		Retryable:   false,
		UserMessage: "resource not found",
	},
	CodeConflict: {
		Retryable:   false,
		UserMessage: "the request conflicts with the current state",
	},
	CodeRateLimit: {
		Retryable:   true,
		UserMessage: "too many attempts, try again shortly",
	},
	CodeNetwork: {
		Retryable:   true,
		UserMessage: "could not reach the store, check your connection",
	},
	CodeServer: {
		Retryable:   true,
		UserMessage: "something went wrong on our side",
	},
	CodeGateway: {
		Retryable:   false,
		UserMessage: "payment service is unavailable",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeServer]
}

// CodeForStatus maps a backend response status onto the client taxonomy.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimit
	default:
		if status >= 400 && status < 500 {
			return CodeValidation
		}
		return CodeServer
	}
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeServer
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// UserMessage returns the server-provided message when present, otherwise the
// canned message for the code. This is the string shown in transient notifications.
func (e *Error) UserMessage() string {
	if e == nil {
		return ""
	}
	if e.message != "" {
		return e.message
	}
	return MetadataFor(e.code).UserMessage
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
