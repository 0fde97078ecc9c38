// Package apierror provides the error taxonomy and the response envelope for the API.
// Every error returned to clients goes through this package so that internal
// details (stack traces, SQL errors) never leak and the HTTP status is decided
// in one place.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Code is the machine-readable error kind carried in the envelope.
type Code string

const (
	CodeUnauthenticated     Code = "UNAUTHENTICATED"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeReadOnlyRole        Code = "READ_ONLY_ROLE"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeInsufficientStock   Code = "INSUFFICIENT_STOCK"
	CodeCreditLimitExceeded Code = "CREDIT_LIMIT_EXCEEDED"
	CodePartyInactive       Code = "PARTY_INACTIVE"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeSessionConflict     Code = "SESSION_OPEN_ELSEWHERE"
	CodeLicenseDenied       Code = "LICENSE_DENIED"
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeInternal            Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeUnauthenticated:     http.StatusUnauthorized,
	CodeUnauthorized:        http.StatusForbidden,
	CodeReadOnlyRole:        http.StatusForbidden,
	CodeLicenseDenied:       http.StatusForbidden,
	CodeValidation:          http.StatusUnprocessableEntity,
	CodeCreditLimitExceeded: http.StatusUnprocessableEntity,
	CodePartyInactive:       http.StatusUnprocessableEntity,
	CodeInsufficientStock:   http.StatusConflict,
	CodeConflict:            http.StatusConflict,
	CodeSessionConflict:     http.StatusConflict,
	CodeNotFound:            http.StatusNotFound,
	CodeBadRequest:          http.StatusBadRequest,
	CodeInternal:            http.StatusInternalServerError,
}

// Error is a typed domain error. It keeps the underlying cause so callers can
// still use errors.Is / errors.As after the error crossed a transaction boundary.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status mapped to the error code.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WithCause attaches the underlying error and returns e.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func Unauthenticated(msg string) *Error { return newError(CodeUnauthenticated, msg) }

// Unauthorized is returned when the acting user lacks the module permission.
func Unauthorized(modulo string) *Error {
	e := newError(CodeUnauthorized, "No tiene permisos para el modulo "+modulo)
	e.Details = map[string]any{"modulo": modulo}
	return e
}

// ReadOnlyRole is returned for any write attempted by a solo_lectura role.
func ReadOnlyRole() *Error {
	return newError(CodeReadOnlyRole, "Su rol es de solo lectura")
}

func Validation(msg string) *Error { return newError(CodeValidation, msg) }

// ValidationFields reports per-field validation failures.
func ValidationFields(fields map[string]string) *Error {
	e := newError(CodeValidation, "Error de validacion")
	e.Fields = fields
	return e
}

func InsufficientStock(producto string, disponible, solicitado decimal.Decimal) *Error {
	e := newError(CodeInsufficientStock, fmt.Sprintf(
		"Stock insuficiente para %s: disponible %s, solicitado %s",
		producto, disponible.String(), solicitado.String()))
	e.Details = map[string]any{
		"producto":   producto,
		"disponible": disponible,
		"solicitado": solicitado,
	}
	return e
}

func CreditLimitExceeded(cliente string, saldo, limite, total decimal.Decimal) *Error {
	e := newError(CodeCreditLimitExceeded, fmt.Sprintf(
		"El cliente %s supera su limite de credito (%s)", cliente, limite.StringFixed(2)))
	e.Details = map[string]any{
		"cliente": cliente,
		"saldo":   saldo,
		"limite":  limite,
		"total":   total,
	}
	return e
}

func PartyInactive(nombre string) *Error {
	return newError(CodePartyInactive, nombre+" esta inactivo")
}

func NotFound(entidad string) *Error {
	return newError(CodeNotFound, entidad+" no encontrado")
}

func Conflict(msg string) *Error { return newError(CodeConflict, msg) }

// SessionConflict signals that the user already holds a session on another device.
func SessionConflict() *Error {
	return newError(CodeSessionConflict, "El usuario tiene una sesion abierta en otro equipo")
}

func LicenseDenied(msg string) *Error { return newError(CodeLicenseDenied, msg) }

func BadRequest(msg string) *Error { return newError(CodeBadRequest, msg) }

// Internal wraps an unexpected failure; the cause is logged, never returned.
func Internal(cause error) *Error {
	return newError(CodeInternal, "Error interno del servidor").WithCause(cause)
}

// As extracts the *Error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err (or anything it wraps) carries the given code.
func IsCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// ── Envelope ─────────────────────────────────────────────────────────────────

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    Code              `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

// New builds a plain bad-request envelope.
func New(msg string) *APIError {
	return &APIError{Message: msg, Code: CodeBadRequest}
}

// NewValidation wraps multiple field errors.
func NewValidation(fields map[string]string) *APIError {
	return &APIError{Message: "Error de validacion", Code: CodeValidation, Fields: fields}
}

// FromError maps any error to its HTTP status and envelope. Errors outside the
// taxonomy become a generic 500 so their text is never exposed.
func FromError(err error) (int, *APIError) {
	e, ok := As(err)
	if !ok {
		e = Internal(err)
	}
	env := &APIError{Message: e.Message, Code: e.Code, Fields: e.Fields, Details: e.Details}
	return e.Status(), env
}
