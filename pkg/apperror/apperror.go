package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operation failure so handlers can map it to a status code
// and the UI can phrase a message.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInsufficientStock
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindConflict:
		return "CONFLICT"
	}
	return "UNKNOWN"
}

// Error carries enough context (entity, id, offending field) for a user-facing
// message. A failed operation never leaves partial state behind; callers wrap
// mutations in a transaction.
type Error struct {
	Kind   Kind
	Entity string
	ID     string
	Field  string
	Msg    string
}

func (e *Error) Error() string {
	switch {
	case e.ID != "" && e.Field != "":
		return fmt.Sprintf("%s %s: %s: %s", e.Entity, e.ID, e.Field, e.Msg)
	case e.ID != "":
		return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Msg)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Entity, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Entity, e.Msg)
}

func Validation(entity, field, msg string) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Field: field, Msg: msg}
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Msg: "not found"}
}

func InsufficientStock(itemNo string, available, requested int) *Error {
	return &Error{
		Kind:   KindInsufficientStock,
		Entity: "item",
		ID:     itemNo,
		Msg:    fmt.Sprintf("insufficient stock: available %d, requested %d", available, requested),
	}
}

func Conflict(entity, id, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: id, Msg: msg}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, else 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool        { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool          { return KindOf(err) == KindNotFound }
func IsInsufficientStock(err error) bool { return KindOf(err) == KindInsufficientStock }
func IsConflict(err error) bool          { return KindOf(err) == KindConflict }

// HTTPStatus maps an error to the status code the API surfaces it with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
