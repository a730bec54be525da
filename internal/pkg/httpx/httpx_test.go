package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondData(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondData(rec, http.StatusCreated, map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Empty(t, body.Message)
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "product not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "product not found", body.Message)
	assert.Nil(t, body.Data)
}

func TestRequireUser(t *testing.T) {
	var seenUser string
	handler := RequireUser(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserID(r)
		w.WriteHeader(http.StatusNoContent)
	})

	// 无身份头直接拒绝，内层处理器不执行。
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, seenUser)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", "user-1")
	handler(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", seenUser)
}
