package routes

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/handlers"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/response"
)

// Pinger reports store health for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the route modules need.
type Deps struct {
	Auth        *middleware.Auth
	Log         *logger.Logger
	Store       Pinger
	CORSOrigins []string

	AuthHandler       *handlers.AuthHandler
	ProjectHandler    *handlers.ProjectHandler
	TaskHandler       *handlers.TaskHandler
	MessageHandler    *handlers.MessageHandler
	UserHandler       *handlers.UserHandler
	ActivityHandler   *handlers.ActivityHandler
	InvitationHandler *handlers.InvitationHandler
	WebSocketHandler  *handlers.WebSocketHandler
}

// List of all route registration functions
var routeModules = []func(*mux.Router, *Deps){
	AuthRoutes,
	ProjectRoutes,
	TaskRoutes,
	MessageRoutes,
	UserRoutes,
	ActivityRoutes,
	InvitationRoutes,
	WebSocketRoutes,
}

// RegisterAllRoutes builds the router with every module mounted under /api.
// The global middleware wraps the router itself so that preflight requests
// and unmatched routes pass through it too.
func RegisterAllRoutes(d *Deps) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})

	router.Handle("/health", methods{http.MethodGet: health(d.Store)})

	api := router.PathPrefix("/api").Subrouter()
	for _, register := range routeModules {
		register(api, d)
	}

	var handler http.Handler = router
	handler = middleware.CORS(d.CORSOrigins)(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.RequestLogger(d.Log)(handler)
	handler = middleware.Recover(d.Log)(handler)
	return handler
}

// methods serves a single path and picks the handler by request method.
// Each path is registered once, so a known path with an unknown method gets
// a 405 instead of falling through the subrouters to the 404 handler.
type methods map[string]http.Handler

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h.ServeHTTP(w, r)
		return
	}
	allowed := make([]string, 0, len(m))
	for method := range m {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]any{
			"status":    "OK",
			"timestamp": time.Now().UTC(),
		})
	}
}

// protected puts a handler behind the JSON wrapper, authentication and,
// when roles are given, the role gate.
func (d *Deps) protected(h http.HandlerFunc, roles ...models.Role) http.Handler {
	var next http.Handler = h
	if len(roles) > 0 {
		next = middleware.RequireRoles(roles...)(next)
	}
	return middleware.ResponseWrapperMiddleware(d.Auth.Authenticate(next))
}
