package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/washline/washline/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.NotFound("invoice", "x"), http.StatusNotFound},
		{shared.InvalidInput("paid", "must be numeric"), http.StatusBadRequest},
		{fmt.Errorf("create invoice: %w", shared.ErrConflict), http.StatusConflict},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code, tc.err.Error())

		var body ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, tc.status, body.Status)
	}
}

func TestRespondErrorIncludesField(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, shared.InvalidInput("total", "required"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "total", body.Field)
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	var target struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &target)
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestValidateStructReportsJSONField(t *testing.T) {
	type payload struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
	}
	v := NewValidator()

	err := ValidateStruct(v, payload{Email: "x@example.com"})
	var invalid *shared.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "name", invalid.Field)

	require.NoError(t, ValidateStruct(v, payload{Name: "Ana"}))
}
