// Package server assembles services, handlers and routes into one handler.
package server

import (
	"context"
	"net/http"

	"github.com/nikhil/teamhub/internal/config"
	"github.com/nikhil/teamhub/internal/handlers"
	"github.com/nikhil/teamhub/internal/identity"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/mailer"
	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/realtime"
	"github.com/nikhil/teamhub/internal/routes"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	authService "github.com/nikhil/teamhub/internal/service/auth"
	invitationService "github.com/nikhil/teamhub/internal/service/invitations"
	messageService "github.com/nikhil/teamhub/internal/service/messages"
	projectService "github.com/nikhil/teamhub/internal/service/projects"
	taskService "github.com/nikhil/teamhub/internal/service/tasks"
	teamService "github.com/nikhil/teamhub/internal/service/team"
	userService "github.com/nikhil/teamhub/internal/service/users"
	"github.com/nikhil/teamhub/internal/store"
)

type Server struct {
	Handler http.Handler
	Hub     *realtime.Hub
}

// New wires every service against s. The hub must be started with Run
// before websocket clients connect.
func New(cfg *config.Config, s store.Store, verifier identity.Verifier, m mailer.Mailer, log *logger.Logger) *Server {
	hub := realtime.NewHub(log.Named("realtime"))

	activities := activityService.NewActivityService(s, log.Named("activity"))
	teams := teamService.NewTeamService(s, activities, cfg.DefaultTeamName, log.Named("team"))
	auth := authService.NewAuthService(s, teams, activities, cfg.Auth.AllowRequestedRole, log.Named("auth"))

	rs := handlers.Responder{Log: log, Production: cfg.IsProduction()}

	deps := &routes.Deps{
		Auth: &middleware.Auth{
			Verifier:   verifier,
			Resolver:   auth,
			Log:        log.Named("middleware"),
			Production: cfg.IsProduction(),
		},
		Log:         log.Named("http"),
		Store:       s,
		CORSOrigins: cfg.CORSOrigins,

		AuthHandler:     handlers.NewAuthHandler(auth, teams, rs),
		ProjectHandler:  handlers.NewProjectHandler(projectService.NewProjectService(s, activities, hub, log.Named("projects")), rs),
		TaskHandler:     handlers.NewTaskHandler(taskService.NewTaskService(s, activities, hub, log.Named("tasks")), rs),
		MessageHandler:  handlers.NewMessageHandler(messageService.NewMessageService(s, activities, hub, log.Named("messages")), rs),
		UserHandler:     handlers.NewUserHandler(userService.NewUserService(s, log.Named("users")), teams, rs),
		ActivityHandler: handlers.NewActivityHandler(activities, rs),
		InvitationHandler: handlers.NewInvitationHandler(
			invitationService.NewInvitationService(s, activities, m, cfg.FrontendURL, cfg.InvitationTTL, log.Named("invitations")), rs),
		WebSocketHandler: handlers.NewWebSocketHandler(hub, cfg.CORSOrigins, rs),
	}

	return &Server{Handler: routes.RegisterAllRoutes(deps), Hub: hub}
}

// Start runs the hub until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go s.Hub.Run(ctx)
}
