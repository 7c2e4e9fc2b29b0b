package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("reuses caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/password-policy/validate", nil)
		req.Header.Set(HeaderRequestID, "kc-req-42")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "kc-req-42", seen)
		assert.Equal(t, "kc-req-42", rec.Header().Get(HeaderRequestID))
	})

	t.Run("generates uuid when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/password-policy/validate", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/password-policy/validate", nil)
		req.Header.Set(HeaderRequestID, strings.Repeat("x", maxRequestIDLength+1))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Len(t, seen, 36)
	})
}
