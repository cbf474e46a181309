package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:          ErrValidation.Code,
		http.StatusUnprocessableEntity: ErrValidation.Code,
		http.StatusUnauthorized:        ErrUnauthorized.Code,
		http.StatusForbidden:           ErrForbidden.Code,
		http.StatusNotFound:            ErrNotFound.Code,
		http.StatusConflict:            ErrConflict.Code,
		http.StatusInternalServerError: ErrUpstream.Code,
		http.StatusTeapot:              ErrUpstream.Code,
	}
	for status, code := range cases {
		assert.Equal(t, code, FromStatus(status, "").Code, "status %d", status)
	}

	err := FromStatus(http.StatusNotFound, "student not found")
	assert.Equal(t, "student not found", err.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load: %w", Clone(ErrNotFound, "teacher not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}
