package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rafael/central-backend/internal/api/handlers"
	"github.com/rafael/central-backend/internal/api/middleware"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	userHandler := handlers.NewUserHandler(services.User, services.Auth)
	customerHandler := handlers.NewCustomerHandler(services.Customer)
	teamHandler := handlers.NewTeamHandler(services.Team)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.TokenAuth(services.Auth))
				r.Post("/logout", userHandler.Logout)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(services.Auth, domain.RoleAdmin))
					r.Get("/pending", userHandler.Pending)
					r.Post("/{id}/approve", userHandler.Approve)
				})
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", customerHandler.Create)
			r.Post("/login", customerHandler.Login)
			r.Get("/validate-affiliate/{link}", customerHandler.ValidateAffiliateLink)

			r.Group(func(r chi.Router) {
				r.Use(middleware.TokenAuth(services.Auth))
				r.Get("/", customerHandler.List)
				r.Get("/{id}", customerHandler.Get)
				r.Put("/{id}", customerHandler.Update)
				r.Delete("/{id}", customerHandler.Delete)
				r.Get("/{id}/broker", customerHandler.Broker)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.Post("/accept-invitation", teamHandler.AcceptInvitation)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Post("/", teamHandler.Create)
				r.Get("/roles", teamHandler.AllowedRoles)
				r.Get("/{id}/members", teamHandler.ListMembers)
				r.Post("/{id}/invitations", teamHandler.Invite)
				r.Delete("/{id}/members/{memberId}", teamHandler.RemoveMember)
			})
		})
	})

	return r
}
