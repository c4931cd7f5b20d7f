package adaptor

import (
	"net/http"

	"catalog-review/internal/dto/request"
	"catalog-review/internal/usecase"
	"catalog-review/pkg/utils"

	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), identity, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created successfully", review)
}

// GetReviews handles GET /reviews?itemId=&userId=
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	itemID, err := utils.ParseOptionalUUID(q.Get("itemId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid query parameter", map[string]string{"itemId": err.Error()})
		return
	}

	userID, err := utils.ParseOptionalUUID(q.Get("userId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid query parameter", map[string]string{"userId": err.Error()})
		return
	}

	reviews, err := h.service.GetReviews(r.Context(), request.ReviewListQuery{ItemID: itemID, UserID: userID})
	if err != nil {
		handleServiceError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// UpdateReview handles PUT /reviews/{id} (author only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid review ID", nil)
		return
	}

	var req request.UpdateReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), identity, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /reviews/{id} (author only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid review ID", nil)
		return
	}

	if err := h.service.DeleteReview(r.Context(), identity, id); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted successfully", nil)
}
