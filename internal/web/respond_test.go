package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusOK, "Retrieve successful.", map[string]any{"data": []string{"x"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Retrieve successful.", body["successMsg"])
	assert.Equal(t, float64(http.StatusOK), body["statusCode"])
	assert.Contains(t, body, "data")
}

func TestWriteErrorStatusAlignment(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{AuthFailed("nope"), http.StatusUnauthorized},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, zap.NewNop().Sugar(), tc.err)
		assert.Equal(t, tc.status, rec.Code)
		body := decodeBody(t, rec)
		// body statusCode always mirrors the HTTP status
		assert.Equal(t, float64(tc.status), body["statusCode"])
		assert.Equal(t, tc.err.Msg, body["errorMsg"])
	}
}

func TestWriteErrorExtraFields(t *testing.T) {
	rec := httptest.NewRecorder()
	err := BadRequestWith("Bad Request - Missing Parameters",
		map[string]any{"missingParameters": []string{"email"}})
	WriteError(rec, zap.NewNop().Sugar(), err)

	body := decodeBody(t, rec)
	assert.Equal(t, []any{"email"}, body["missingParameters"])
}

func TestWriteErrorInternalLogsFault(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()
	WriteError(rec, zap.New(core).Sugar(), errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "connection reset", body["errorMsg"])
	assert.Equal(t, float64(http.StatusInternalServerError), body["statusCode"])
	require.Equal(t, 1, logs.FilterMessage("internal fault").Len())
}

func TestMissingKeys(t *testing.T) {
	raw := map[string]json.RawMessage{"email": json.RawMessage(`"a@b.c"`)}
	missing := MissingKeys(raw, []string{"email", "password"})
	assert.Equal(t, []string{"password"}, missing)

	assert.Nil(t, MissingKeys(raw, []string{"email"}))
}

func TestReadBodyInvalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	_, werr := ReadBody(r)
	require.NotNil(t, werr)
	assert.Equal(t, KindBadRequest, werr.Kind)
}
