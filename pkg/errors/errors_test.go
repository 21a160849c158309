package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	notFound := Clone(ErrNotFound, "room not found")
	wrapped := fmt.Errorf("load room: %w", notFound)

	got := FromError(wrapped)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "room not found", got.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.ErrorIs(t, got, sql.ErrConnDone)
}

func TestClonedErrorsMatchByCode(t *testing.T) {
	assert.True(t, errors.Is(Clone(ErrNotFound, "exam not found"), ErrNotFound))
	assert.False(t, errors.Is(Clone(ErrNotFound, "exam not found"), ErrConflict))
	assert.True(t, errors.Is(Validation(nil, "bad"), ErrValidation))
}

func TestNilErrorHelpers(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Nil(t, Clone(nil, "x"))
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
}
