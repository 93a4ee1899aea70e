package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var payload struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	return payload.Error
}

func TestRenderErrorKeepsAppErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	RenderError(rr, NotFoundError("drink not found"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, CodeNotFound, body.Code)
	require.Equal(t, "drink not found", body.Message)
}

func TestRenderErrorWrapsUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	RenderError(rr, errors.New("connection refused"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, CodeStorage, body.Code)
	require.Equal(t, "storage failure", body.Message)
}

func TestRenderErrorUnwrapsNestedAppError(t *testing.T) {
	wrapped := StorageError(errors.New("deadlock detected"))

	rr := httptest.NewRecorder()
	RenderError(rr, wrapped)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, CodeStorage, decodeError(t, rr).Code)
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := StorageError(inner)
	require.ErrorIs(t, err, inner)
	require.True(t, IsAppError(err))
	require.False(t, IsAppError(inner))
}
