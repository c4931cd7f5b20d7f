package response

import (
	"time"

	"catalog-review/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ItemID    string    `json:"itemId"`
	Rating    int       `json:"rating"`
	Text      *string   `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UserName  string    `json:"userName,omitempty"`
	ItemTitle string    `json:"itemTitle,omitempty"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		UserID:    review.UserID.String(),
		ItemID:    review.ItemID.String(),
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt,
	}
}

func DetailedReviewToResponse(review *entity.ReviewWithAuthor) ReviewResponse {
	resp := ReviewToResponse(&review.Review)
	resp.UserName = review.UserName
	resp.ItemTitle = review.ItemTitle
	return resp
}

func DetailedReviewsToResponse(reviews []*entity.ReviewWithAuthor) []ReviewResponse {
	result := make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		result[i] = DetailedReviewToResponse(review)
	}
	return result
}
