package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
	issuesvc "github.com/ArnavSingha/ApniSec/internal/services/issues"
	notesvc "github.com/ArnavSingha/ApniSec/internal/services/notes"
	ratesvc "github.com/ArnavSingha/ApniSec/internal/services/rate"
	usersvc "github.com/ArnavSingha/ApniSec/internal/services/users"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/handlers"
)

const (
	scopeRegister       = "register"
	scopeLogin          = "login"
	scopeForgotPassword = "forgot-password"
	scopeResetPassword  = "reset-password"
)

type Dependencies struct {
	AuthService  *authsvc.Service
	IssueService *issuesvc.Service
	NoteService  *notesvc.Service
	UserService  *usersvc.Service
	Limiter      *ratesvc.Limiter
	Store        handlers.Pinger
	Cookies      handlers.CookieConfig
	StaticDir    string
	Logger       *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	log := deps.Logger
	tokens := deps.AuthService.Tokens()

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Cookies, log)
	issueHandler := handlers.NewIssueHandler(deps.IssueService, log)
	noteHandler := handlers.NewNoteHandler(deps.NoteService, log)
	userHandler := handlers.NewUserHandler(deps.UserService, log)
	healthHandler := handlers.NewHealthHandler(deps.Store, log)

	limit := func(scope string) func(next http.Handler) http.Handler {
		return RateLimit(deps.Limiter, scope, log)
	}
	session := RequireSession(tokens, log)

	api := func(r chi.Router) {
		r.Get("/health/db-check", healthHandler.DBCheck)

		r.Route("/auth", func(r chi.Router) {
			r.With(limit(scopeRegister)).Post("/register", authHandler.Register)
			r.With(limit(scopeLogin)).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(limit(ratesvc.DefaultScope), session).Get("/me", authHandler.Me)
			r.With(limit(scopeForgotPassword)).Post("/forgot-password", authHandler.ForgotPassword)
			r.With(limit(scopeResetPassword)).Post("/reset-password", authHandler.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(limit(ratesvc.DefaultScope))
			r.Use(session)

			r.Get("/issues", issueHandler.List)
			r.Post("/issues", issueHandler.Create)
			r.Get("/issues/{id}", issueHandler.Get)
			r.Put("/issues/{id}", issueHandler.Update)
			r.Delete("/issues/{id}", issueHandler.Delete)

			r.Get("/notes", noteHandler.List)
			r.Post("/notes", noteHandler.Create)

			r.Get("/users/profile", userHandler.GetProfile)
			r.Put("/users/profile", userHandler.UpdateProfile)
		})
	}

	r.Get("/healthz", healthHandler.Live)
	api(r)
	r.Route("/api", api)

	registerPages(r, tokens, deps.StaticDir)
}
