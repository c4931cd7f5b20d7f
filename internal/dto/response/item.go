package response

import (
	"encoding/json"
	"time"

	"catalog-review/internal/data/entity"
)

type ItemResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	Type          string          `json:"type"`
	ReleaseYear   *int            `json:"releaseYear"`
	Genre         *string         `json:"genre"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	AverageRating float64         `json:"averageRating"`
	TotalReviews  int             `json:"totalReviews"`
}

// ItemReviewResponse is a review as nested in an item detail.
type ItemReviewResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Text      *string   `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UserName  string    `json:"userName"`
}

type ItemDetailResponse struct {
	ItemResponse
	Reviews []ItemReviewResponse `json:"reviews"`
}

// ItemToResponse converts without rating fields; callers fill them in.
func ItemToResponse(item *entity.Item) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID.String(),
		Title:       item.Title,
		Description: item.Description,
		Type:        item.Type,
		ReleaseYear: item.ReleaseYear,
		Genre:       item.Genre,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if len(item.Metadata) > 0 {
		resp.Metadata = json.RawMessage(item.Metadata)
	}
	return resp
}

func ItemReviewsToResponse(reviews []*entity.ReviewWithAuthor) []ItemReviewResponse {
	result := make([]ItemReviewResponse, len(reviews))
	for i, review := range reviews {
		result[i] = ItemReviewResponse{
			ID:        review.ID.String(),
			Rating:    review.Rating,
			Text:      review.Text,
			CreatedAt: review.CreatedAt,
			UserName:  review.UserName,
		}
	}
	return result
}
