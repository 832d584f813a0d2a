package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmrwatch/internal/types"
)

func requestWithID(t *testing.T, method, target string, body string) *http.Request {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(types.WithRequestID(r.Context(), "req_test"))
}

func TestJSON_WritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	r := requestWithID(t, http.MethodGet, "/v1/projects", "")

	JSON(w, r, http.StatusOK, APIResponse{Data: map[string]string{"hello": "world"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "world", resp.Data["hello"])
}

func TestError_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	r := requestWithID(t, http.MethodGet, "/v1/projects", "")

	appErr := types.NewAppErrorWithDetails(types.ErrCodeValidationMalformedDate,
		"target date must be formatted as YYYY-MM-DD", nil,
		map[string]any{"value": "15-03-2026"})
	Error(w, r, appErr)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_malformed_date", resp.Error.Code)
	assert.Equal(t, "req_test", resp.Error.RequestID)
	assert.Equal(t, "15-03-2026", resp.Error.Details["value"])
}

func TestError_WrappedAppError(t *testing.T) {
	w := httptest.NewRecorder()
	r := requestWithID(t, http.MethodGet, "/v1/projects/fmr_x", "")

	inner := types.NewAppError(types.ErrCodeNotFoundProject, "project not found", nil)
	Error(w, r, errors.Join(errors.New("outer context"), inner))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestError_UnknownErrorIs500(t *testing.T) {
	w := httptest.NewRecorder()
	r := requestWithID(t, http.MethodGet, "/v1/projects", "")

	Error(w, r, errors.New("sensitive driver detail"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(types.ErrCodeInternalUnexpected), resp.Error.Code)
	// Internal detail must never leak into the response body.
	assert.NotContains(t, w.Body.String(), "sensitive driver detail")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid object", body: `{"name":"ok"}`},
		{name: "malformed JSON", body: `{"name":`, wantErr: true},
		{name: "unknown field", body: `{"name":"ok","extra":1}`, wantErr: true},
		{name: "wrong type", body: `{"name":42}`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "trailing second value", body: `{"name":"ok"}{"name":"again"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewReader([]byte(tt.body)))

			var dst payload
			err := DecodeJSON(w, r, &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "ok", dst.Name)
				return
			}

			require.Error(t, err)
			var appErr *types.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errCodeInvalidJSON, appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	w := httptest.NewRecorder()
	big := `{"name":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/v1/projects", strings.NewReader(big))

	var dst struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(w, r, &dst)
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errCodeInvalidJSON, appErr.Code)
}
