package wire

import (
	"net/http"

	"catalog-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	requireAuth func(http.Handler) http.Handler,
) {
	// GET /reviews?itemId=&userId= - public, at least one filter required
	r.Get("/reviews", reviewHandler.GetReviews)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/reviews", reviewHandler.CreateReview)
		r.Put("/reviews/{id}", reviewHandler.UpdateReview) // author only
		r.Delete("/reviews/{id}", reviewHandler.DeleteReview)
	})
}
