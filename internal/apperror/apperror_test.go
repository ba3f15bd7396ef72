package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndCode(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{Validation("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{NotFound("missing"), http.StatusNotFound, "NOT_FOUND"},
		{Data(errors.New("x"), "corrupt"), http.StatusInternalServerError, "DATA_ERROR"},
		{Database(errors.New("x"), "down"), http.StatusInternalServerError, "DATABASE_ERROR"},
		{Conflict("stale"), http.StatusConflict, "CONFLICT"},
		{RateLimited("slow down"), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{PayloadTooLarge("too big"), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{Validation("bad xml").WithCode("INVALID_FORMAT"), http.StatusBadRequest, "INVALID_FORMAT"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status(), tc.err.Message)
		assert.Equal(t, tc.code, tc.err.ErrorCode(), tc.err.Message)
	}
}

func TestFromAndIs(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFound("no pool hours"))

	assert.True(t, errors.Is(wrapped, NotFound("")))
	assert.False(t, errors.Is(wrapped, Validation("")))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, "no pool hours", From(wrapped).Message)

	unknown := From(errors.New("boom"))
	assert.Equal(t, KindInternal, unknown.Kind)
	assert.Equal(t, http.StatusInternalServerError, unknown.Status())
	assert.ErrorContains(t, unknown, "boom")
}

func TestWithDetail(t *testing.T) {
	err := Validation("bad").WithDetail("field", "date")
	assert.Equal(t, map[string]any{"field": "date"}, err.Details)
}
