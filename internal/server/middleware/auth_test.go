package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator accepts a fixed set of session tokens.
type fakeValidator struct {
	sessions map[string]uuid.UUID
}

func (v *fakeValidator) ValidateToken(token string) (UserIDGetter, error) {
	userID, ok := v.sessions[token]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return fakeClaims{userID: userID}, nil
}

type fakeClaims struct {
	userID uuid.UUID
}

func (c fakeClaims) GetUserID() uuid.UUID { return c.userID }

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alumni/mentorships", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req
}

func TestAuthMiddleware_ValidTokenInjectsUserID(t *testing.T) {
	userID := uuid.New()
	validator := &fakeValidator{sessions: map[string]uuid.UUID{"session-token": userID}}

	var got uuid.UUID
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		extracted, err := GetUserID(r)
		require.NoError(t, err)
		got = extracted
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authRequest("Bearer session-token"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, got)
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	validator := &fakeValidator{sessions: map[string]uuid.UUID{"session-token": uuid.New()}}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no bearer prefix", header: "session-token"},
		{name: "bearer without token", header: "Bearer"},
		{name: "empty token", header: "Bearer "},
		{name: "unknown token", header: "Bearer forged-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := AuthMiddleware(validator)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				called = true
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, authRequest(tt.header))

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
		})
	}
}

func TestGetUserID_PresentInContext(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/career/dashboard", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, userID))

	got, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestGetUserID_MissingOrWrongType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/career/dashboard", nil)
	got, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, got)

	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "not-a-uuid"))
	got, err = GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, got)
}
