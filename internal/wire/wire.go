// internal/wire/wire.go
package wire

import (
	"fmt"
	"net/http"
	"time"

	"catalog-review/internal/adaptor"
	"catalog-review/internal/data/repository"
	"catalog-review/internal/usecase"
	"catalog-review/pkg/events"
	"catalog-review/pkg/middleware"
	"catalog-review/pkg/security"
	"catalog-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired router and the collaborators routes depend on.
type App struct {
	Router *chi.Mux
	Tokens *security.TokenManager
}

// Wiring builds services, handlers and the route table.
func Wiring(repo *repository.Repository, publisher events.Publisher, config *utils.Config, logger *zap.Logger) (*App, error) {
	tokens, err := security.NewTokenManager(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	policy := usecase.NewItemPolicy(config.Items.ManagerEmails)
	if len(config.Items.ManagerEmails) > 0 {
		logger.Info("Item management restricted to allow list",
			zap.Int("managers", len(config.Items.ManagerEmails)))
	}

	service := usecase.NewService(repo, tokens, publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, tokens, policy, logger)

	return &App{
		Router: router,
		Tokens: tokens,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	verifier middleware.TokenVerifier,
	policy middleware.ItemManagerPolicy,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	requireAuth := middleware.Auth(verifier, logger)

	// Apply routes
	wireAuth(r, handler.Auth)
	wireUser(r, handler.Auth, handler.User, requireAuth)
	wireItem(r, handler.Item, requireAuth, middleware.RequireItemManager(policy, logger))
	wireReview(r, handler.Review, requireAuth)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseText(w, http.StatusOK, "OK")
	})

	return r
}
