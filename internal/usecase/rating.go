package usecase

import "math"

// RatingSummary is derived from an item's reviews on every read.
type RatingSummary struct {
	AverageRating float64
	TotalReviews  int
}

// AggregateRatings averages ratings rounded to one decimal place; no ratings gives zero.
func AggregateRatings(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	avg := float64(sum) / float64(len(ratings))
	return RatingSummary{
		AverageRating: math.Round(avg*10) / 10,
		TotalReviews:  len(ratings),
	}
}
