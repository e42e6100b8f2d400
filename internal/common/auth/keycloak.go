// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recruit-workers/internal/common/errors"
)

// KeycloakClient resolves access tokens to user ids and ends sessions.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// TokenInfo holds the fields of the introspection response we rely on.
type TokenInfo struct {
	Active   bool   `json:"active"`
	Sub      string `json:"sub,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Exp      int64  `json:"exp,omitempty"`
}

// NewKeycloakClient creates a new instance of KeycloakClient.
func NewKeycloakClient(baseURL, realm, clientID, clientSecret string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (k *KeycloakClient) endpoint(path string) string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/%s", k.baseURL, k.realm, path)
}

func (k *KeycloakClient) postForm(ctx context.Context, endpoint string, data url.Values) (*http.Response, error) {
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return k.httpClient.Do(req)
}

// ValidateToken introspects an access token and returns its claims when active.
func (k *KeycloakClient) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	if token == "" {
		return nil, errors.NewAuthenticationError("missing access token")
	}

	resp, err := k.postForm(ctx, k.endpoint("token/introspect"), url.Values{
		"token":           {token},
		"token_type_hint": {"access_token"},
	})
	if err != nil {
		return nil, errors.NewProfileLookupFailedError(fmt.Errorf("introspection request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("introspection status %d: %s", resp.StatusCode, string(body))
		if isTransientHTTPError(resp.StatusCode) {
			return nil, errors.NewProfileLookupFailedError(err)
		}
		return nil, errors.NewAuthenticationError(err.Error())
	}

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.NewAuthenticationError(fmt.Sprintf("failed to decode introspection response: %v", err))
	}

	if !info.Active || info.Sub == "" {
		return nil, errors.NewAuthenticationError("token is not active")
	}
	return &info, nil
}

// Logout revokes the session bound to the refresh token.
func (k *KeycloakClient) Logout(ctx context.Context, refreshToken string) error {
	resp, err := k.postForm(ctx, k.endpoint("logout"), url.Values{"refresh_token": {refreshToken}})
	if err != nil {
		return errors.NewSignOutFailedError(err)
	}
	defer resp.Body.Close()

	// Keycloak returns 204 No Content on successful logout
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		stdErr := errors.NewSignOutFailedError(fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
		stdErr.Retryable = isTransientHTTPError(resp.StatusCode)
		return stdErr
	}
	return nil
}

func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
