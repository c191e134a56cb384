package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr string
	}{
		{
			name:    "valid request",
			request: CreateUserRequest{Name: "Priya Nair", Email: "priya@campus.edu", Password: "navigator123"},
		},
		{
			name:    "missing name",
			request: CreateUserRequest{Email: "priya@campus.edu", Password: "navigator123"},
			wantErr: "required",
		},
		{
			name:    "invalid email",
			request: CreateUserRequest{Name: "Priya Nair", Email: "not-an-email", Password: "navigator123"},
			wantErr: "email",
		},
		{
			name:    "password too short",
			request: CreateUserRequest{Name: "Priya Nair", Email: "priya@campus.edu", Password: "short"},
			wantErr: "min",
		},
		{
			name:    "password at minimum length",
			request: CreateUserRequest{Name: "Priya Nair", Email: "priya@campus.edu", Password: "12345678"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request LoginRequest
		wantErr string
	}{
		{
			name:    "valid request",
			request: LoginRequest{Email: "priya@campus.edu", Password: "navigator123"},
		},
		{
			name:    "missing email",
			request: LoginRequest{Password: "navigator123"},
			wantErr: "required",
		},
		{
			name:    "invalid email",
			request: LoginRequest{Email: "not-an-email", Password: "navigator123"},
			wantErr: "email",
		},
		{
			name:    "missing password",
			request: LoginRequest{Email: "priya@campus.edu"},
			wantErr: "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUpdatePasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request UpdatePasswordRequest
		wantErr string
	}{
		{
			name:    "valid request",
			request: UpdatePasswordRequest{CurrentPassword: "navigator123", NewPassword: "navigator456"},
		},
		{
			name:    "missing current password",
			request: UpdatePasswordRequest{NewPassword: "navigator456"},
			wantErr: "required",
		},
		{
			name:    "new password too short",
			request: UpdatePasswordRequest{CurrentPassword: "navigator123", NewPassword: "short"},
			wantErr: "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoginResponse_NeverLeaksPasswordHash(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	response := LoginResponse{
		User: &User{
			ID:          userID,
			Name:        "Priya Nair",
			Email:       "priya@campus.edu",
			PasswordSet: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		Token: "signed.session.token",
	}

	raw, err := json.Marshal(response)
	require.NoError(t, err)

	jsonStr := string(raw)
	assert.Contains(t, jsonStr, userID.String())
	assert.Contains(t, jsonStr, "signed.session.token")
	assert.NotContains(t, jsonStr, "password_hash")

	var decoded LoginResponse
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "priya@campus.edu", decoded.User.Email)
}
