package wire

import (
	"net/http"

	"catalog-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	userHandler *adaptor.UserHandler,
	requireAuth func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/", authHandler.Register)
		r.Get("/", userHandler.GetUsers)
		r.Get("/{id}", userHandler.GetUser)

		// ==================== OWNER ROUTES ====================
		r.With(requireAuth).Put("/{id}", userHandler.UpdateUser)
		r.With(requireAuth).Delete("/{id}", userHandler.DeleteUser)
	})
}
