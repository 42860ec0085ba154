package middleware

import (
	"context"
	"net/http"

	"github.com/nikhil/teamhub/internal/access"
	"github.com/nikhil/teamhub/internal/identity"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/response"
)

type ContextKey string

const (
	UserContextKey     ContextKey = "currentUser"
	IdentityContextKey ContextKey = "identity"
)

// UserResolver maps a verified identity to a local user.
type UserResolver interface {
	Resolve(ctx context.Context, id *identity.Identity) (*models.User, error)
}

// CurrentUser returns the user resolved by Authenticate.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(UserContextKey).(*models.User)
	return u
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, u)
}

// CurrentIdentity returns the identity verified by RequireIdentity or
// Authenticate.
func CurrentIdentity(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(IdentityContextKey).(*identity.Identity)
	return id
}

func WithIdentity(ctx context.Context, id *identity.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

type Auth struct {
	Verifier   identity.Verifier
	Resolver   UserResolver
	Log        *logger.Logger
	Production bool
}

func (a *Auth) verify(w http.ResponseWriter, r *http.Request, allowQuery bool) (*identity.Identity, bool) {
	token, err := identity.BearerToken(r.Header.Get("Authorization"))
	if err != nil && allowQuery {
		// Browsers cannot set headers on websocket upgrades.
		if q := r.URL.Query().Get("token"); q != "" {
			token, err = q, nil
		}
	}
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "No token provided")
		return nil, false
	}

	id, err := a.Verifier.Verify(r.Context(), token)
	if err != nil {
		a.Log.WithContext(r.Context()).Warn("Token verification failed", "error", err)
		response.Error(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}
	return id, true
}

// RequireIdentity only verifies the credential. Registration uses it because
// the local user may not exist yet.
func (a *Auth) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.verify(w, r, false)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Authenticate verifies the credential and resolves the caller, placing them
// in a team if needed.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return a.authenticate(next, false)
}

// AuthenticateWebSocket also accepts the token as a query parameter.
func (a *Auth) AuthenticateWebSocket(next http.Handler) http.Handler {
	return a.authenticate(next, true)
}

func (a *Auth) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.verify(w, r, allowQuery)
		if !ok {
			return
		}

		user, err := a.Resolver.Resolve(r.Context(), id)
		if err != nil {
			response.FromError(w, r, a.Log, err, a.Production)
			return
		}

		ctx := WithIdentity(WithUser(r.Context(), user), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles rejects callers whose role is not listed.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				response.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !access.Allows(user.Role, roles...) {
				response.Error(w, http.StatusForbidden, access.DeniedMessage(roles...))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ResponseWrapperMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
