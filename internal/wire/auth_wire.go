package wire

import (
	"catalog-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// POST /auth/login - exchange credentials for a bearer token
	r.Post("/auth/login", authHandler.Login)
}
