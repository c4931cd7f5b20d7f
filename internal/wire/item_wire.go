package wire

import (
	"net/http"

	"catalog-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireItem(
	r chi.Router,
	itemHandler *adaptor.ItemHandler,
	requireAuth func(http.Handler) http.Handler,
	requireManager func(http.Handler) http.Handler,
) {
	r.Route("/item", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/", itemHandler.CreateItem)
		r.Get("/", itemHandler.GetItems)
		r.Get("/{id}", itemHandler.GetItem)

		// ==================== MANAGER ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireManager)

			r.Put("/{id}", itemHandler.UpdateItem)
			r.Delete("/{id}", itemHandler.DeleteItem)
		})
	})
}
