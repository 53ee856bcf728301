package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindClassification(t *testing.T) {
	assert.True(t, IsValidation(Validation("item", "name", "must not be empty")))
	assert.True(t, IsNotFound(NotFound("item", "A-001")))
	assert.True(t, IsInsufficientStock(InsufficientStock("A-001", 3, 4)))
	assert.True(t, IsConflict(Conflict("movement", "7", "stock would go negative")))
}

func TestKindOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("recording sale: %w", InsufficientStock("A-001", 0, 1))
	assert.Equal(t, KindInsufficientStock, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(fmt.Errorf("plain failure")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("item", "name", "bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("item", "X")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(InsufficientStock("X", 1, 2)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("movement", "1", "x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}

func TestErrorMessageShape(t *testing.T) {
	assert.Equal(t, "item A-001: not found", NotFound("item", "A-001").Error())
	assert.Equal(t, "item: name: must not be empty", Validation("item", "name", "must not be empty").Error())
	assert.Equal(t,
		"item A-001: insufficient stock: available 3, requested 4",
		InsufficientStock("A-001", 3, 4).Error())
}
