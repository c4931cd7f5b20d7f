package request

import "github.com/google/uuid"

type CreateReviewRequest struct {
	ItemID string  `json:"itemId" validate:"required,uuid"`
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Text   *string `json:"text,omitempty" validate:"omitnil,max=2000"`
}

type UpdateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" validate:"omitnil,min=1,max=5"`
	Text   *string `json:"text,omitempty" validate:"omitnil,max=2000"`
}

func (r UpdateReviewRequest) IsEmpty() bool {
	return r.Rating == nil && r.Text == nil
}

// ReviewListQuery holds the GET /reviews query string.
type ReviewListQuery struct {
	ItemID *uuid.UUID
	UserID *uuid.UUID
}
