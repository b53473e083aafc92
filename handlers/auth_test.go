package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGravatarURLNormalizesEmail(t *testing.T) {
	url := gravatarURL(" Dev@Example.COM ")
	require.Equal(t, gravatarURL("dev@example.com"), url)
	require.True(t, strings.HasPrefix(url, "https://www.gravatar.com/avatar/"))

	// 32 hex chars between the prefix and the query string
	hash := strings.TrimPrefix(url, "https://www.gravatar.com/avatar/")
	hash = hash[:strings.Index(hash, "?")]
	require.Len(t, hash, 32)
}

func TestGravatarURLDiffersPerEmail(t *testing.T) {
	require.NotEqual(t, gravatarURL("a@example.com"), gravatarURL("b@example.com"))
}

func TestRegisterValidation(t *testing.T) {
	router := gin.New()
	router.POST("/users", Register)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"email":"a@b.co","password":"secret1"}`, "name"},
		{"missing email", `{"name":"A","password":"secret1"}`, "email"},
		{"bad email", `{"name":"A","email":"nope","password":"secret1"}`, "email"},
		{"short password", `{"name":"A","email":"a@b.co","password":"abc"}`, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeErrors(t, rec)
			require.Len(t, resp.Errors, 1)
			require.Equal(t, tc.field, resp.Errors[0].Field)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	router := gin.New()
	router.POST("/auth", Login)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":"a@b.co"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "password", resp.Errors[0].Field)
}
