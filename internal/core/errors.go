package core

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Code classifies a ledger failure.
type Code string

const (
	CodeDuplicateKey      Code = "DUPLICATE_KEY"
	CodeNotFound          Code = "NOT_FOUND"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Metadata describes how a Code is surfaced to callers outside the core.
type Metadata struct {
	HTTPStatus    int
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeDuplicateKey:      {HTTPStatus: http.StatusConflict, PublicMessage: "product already exists"},
	CodeNotFound:          {HTTPStatus: http.StatusNotFound, PublicMessage: "product not found"},
	CodeValidation:        {HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed"},
	CodeInsufficientStock: {HTTPStatus: http.StatusUnprocessableEntity, PublicMessage: "insufficient stock"},
	CodeInternal:          {HTTPStatus: http.StatusInternalServerError, PublicMessage: "internal error"},
}

// MetadataFor returns the metadata for code, falling back to CodeInternal.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed failure returned by every LedgerStore mutation.
type Error struct {
	code    Code
	message string
	details map[string]string
	cause   error
}

// Sentinels for errors.Is. They match any *Error carrying the same Code.
var (
	ErrDuplicateKey      = &Error{code: CodeDuplicateKey, message: "duplicate product ID"}
	ErrNotFound          = &Error{code: CodeNotFound, message: "product not found"}
	ErrValidation        = &Error{code: CodeValidation, message: "validation failed"}
	ErrInsufficientStock = &Error{code: CodeInsufficientStock, message: "insufficient stock"}
)

func newError(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func newErrorf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// NewValidationError builds a VALIDATION_ERROR for input checked outside the
// store, such as an export request.
func NewValidationError(message string, details map[string]string) error {
	return newError(CodeValidation, message).withDetails(details)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Details holds per-field validation messages, keyed by JSON field name.
func (e *Error) Details() map[string]string {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) withDetails(details map[string]string) *Error {
	e.details = details
	return e
}

func (e *Error) withCause(err error) *Error {
	e.cause = err
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if len(e.details) == 0 {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
	keys := make([]string, 0, len(e.details))
	for k := range e.details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.details[k])
	}
	return fmt.Sprintf("%s: %s (%s)", e.code, e.message, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches sentinels by code so callers can write errors.Is(err, core.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code
}

// AsError extracts the typed ledger error from err, or nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the Code carried by err, CodeInternal for foreign errors and "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if typed := AsError(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}
