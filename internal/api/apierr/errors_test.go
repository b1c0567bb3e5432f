package apierr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itobot/scout/internal/api/apierr"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/services/auth"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &model.ValidationError{Field: "team_number", Message: "is required"}, http.StatusBadRequest, apierr.CodeValidationFailed},
		{"wrapped not found", fmt.Errorf("get: %w", model.ErrEntryNotFound), http.StatusNotFound, apierr.CodeEntryNotFound},
		{"permission", model.ErrPermissionDenied, http.StatusForbidden, apierr.CodeForbidden},
		{"persistence", &model.PersistenceError{Op: "list entries", Err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, apierr.CodePersistenceFailed},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, apierr.CodeInvalidCredentials},
		{"email in use", auth.ErrEmailInUse, http.StatusConflict, apierr.CodeEmailInUse},
		{"team not scouted", apierr.NewTeamNotScoutedError("254"), http.StatusNotFound, apierr.CodeTeamNotScouted},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apierr.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			apierr.WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.status, apierr.Status(tt.err))

			var resp apierr.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestValidationErrorCarriesField(t *testing.T) {
	rr := httptest.NewRecorder()
	apierr.WriteError(rr, &model.ValidationError{Field: "driver_skill", Message: "must be between 1 and 10"})

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "driver_skill", resp.Error.Field)
	assert.Contains(t, resp.Error.Message, "between 1 and 10")
}

func TestPersistenceMessageHidesCause(t *testing.T) {
	rr := httptest.NewRecorder()
	apierr.WriteError(rr, &model.PersistenceError{Op: "create entry", Err: errors.New("secret internals")})

	assert.NotContains(t, rr.Body.String(), "secret internals")
}
