// Package auth resolves the acting user for every request. Tokens are
// verified either against an external auth service or locally via JWT; the
// resolved user id becomes the request's actor.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mazta/hr-master/internal/hr/actor"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnreachable means the external verifier could not be contacted;
	// it maps to 503, not 401.
	ErrUnreachable = errors.New("cannot reach auth service")
)

// Verifier turns a bearer token into a user id.
type Verifier interface {
	Verify(ctx context.Context, token string) (int64, error)
}

// RemoteVerifier asks the external auth service to validate the token.
type RemoteVerifier struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteVerifier(baseURL string) *RemoteVerifier {
	return &RemoteVerifier{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.BaseURL+"/api/auth/verify-token/", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Token "+token)

	resp, err := v.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, ErrInvalidToken
	}

	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, ErrInvalidToken
	}
	return body.UserID, nil
}

// Middleware extracts the token, verifies it, and binds the resolved user id
// to the request context as the actor.
func Middleware(verifier Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, err.Error())
				return
			}

			userID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, ErrUnreachable) {
					logger.Error("auth service unreachable", zap.Error(err))
					writeDetail(w, http.StatusServiceUnavailable, ErrUnreachable.Error())
					return
				}
				writeDetail(w, http.StatusUnauthorized, ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(actor.WithActor(r.Context(), userID)))
		})
	}
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("authorization header required")
	}
	for _, prefix := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, prefix) {
			return strings.TrimPrefix(header, prefix), nil
		}
	}
	return "", fmt.Errorf("invalid authorization format")
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
