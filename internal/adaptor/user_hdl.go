package adaptor

import (
	"net/http"

	"catalog-review/internal/dto/request"
	"catalog-review/internal/usecase"
	"catalog-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetUsers handles GET /users?name=&email=&age=&includeReviews=
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	query := request.UserListQuery{
		Name:           optionalQuery(r, "name"),
		Email:          optionalQuery(r, "email"),
		IncludeReviews: utils.ParseFlag(r.URL.Query().Get("includeReviews")),
	}

	age, err := utils.ParseOptionalInt(r.URL.Query().Get("age"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid query parameter", map[string]string{"age": err.Error()})
		return
	}
	query.Age = age

	users, err := h.service.GetUsers(r.Context(), query)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	includeReviews := utils.ParseFlag(r.URL.Query().Get("includeReviews"))
	user, err := h.service.GetUser(r.Context(), id, includeReviews)
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// ownedUserID resolves {id} and refuses anything but the caller's own account.
func (h *UserHandler) ownedUserID(w http.ResponseWriter, r *http.Request) (utils.Identity, uuid.UUID, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.Identity{}, uuid.Nil, false
	}

	// a malformed id can never be the caller's, so it is refused the same way
	id, _ := pathID(r)
	if err := usecase.RequireOwner(identity, id); err != nil {
		handleServiceError(w, h.log, err, "authorize user")
		return utils.Identity{}, uuid.Nil, false
	}

	return identity, id, true
}

// UpdateUser handles PUT /users/{id} (owner only)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.ownedUserID(w, r)
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), identity, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", user)
}

// DeleteUser handles DELETE /users/{id} (owner only)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.ownedUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), identity, id); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}
