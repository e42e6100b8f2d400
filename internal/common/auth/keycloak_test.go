package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recruit-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeycloakServer(t *testing.T, handler http.HandlerFunc) *KeycloakClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewKeycloakClient(srv.URL+"/", "recruit", "recruit-api", "secret")
}

func TestValidateToken_Active(t *testing.T) {
	client := newKeycloakServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realms/recruit/protocol/openid-connect/token/introspect", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "good-token", r.PostForm.Get("token"))
		assert.Equal(t, "recruit-api", r.PostForm.Get("client_id"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"active": true, "sub": "user-1", "email": "a@b.c"})
	})

	info, err := client.ValidateToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", info.Sub)
}

func TestValidateToken_Inactive(t *testing.T) {
	client := newKeycloakServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"active": false})
	})

	_, err := client.ValidateToken(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAuthenticationFailed))
}

func TestValidateToken_Empty(t *testing.T) {
	client := NewKeycloakClient("http://unused", "recruit", "id", "secret")
	_, err := client.ValidateToken(context.Background(), "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeAuthenticationFailed))
}

func TestValidateToken_ServerErrorIsRetryable(t *testing.T) {
	client := newKeycloakServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ValidateToken(context.Background(), "tok")
	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeProfileLookupFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantErr       bool
		wantRetryable bool
	}{
		{name: "no content", status: http.StatusNoContent},
		{name: "ok", status: http.StatusOK},
		{name: "bad request", status: http.StatusBadRequest, wantErr: true},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantErr: true, wantRetryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newKeycloakServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/realms/recruit/protocol/openid-connect/logout", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))
				w.WriteHeader(tt.status)
			})

			err := client.Logout(context.Background(), "refresh-1")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			stdErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeSignOutFailed, stdErr.Code)
			assert.Equal(t, tt.wantRetryable, stdErr.Retryable)
		})
	}
}
