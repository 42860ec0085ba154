// Package identity verifies bearer credentials issued by an external
// identity provider.
package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrMissingToken = errors.New("identity: missing token")
	ErrInvalidToken = errors.New("identity: invalid token")
)

// Identity is what a verified credential says about its bearer.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// DisplayName falls back to the local part of the e-mail address.
func (i *Identity) DisplayName() string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	if at := strings.IndexByte(i.Email, '@'); at > 0 {
		return i.Email[:at]
	}
	return i.Email
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
