package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	UserID uuid.UUID `db:"user_id"`
	ItemID uuid.UUID `db:"item_id"`
	Rating int       `db:"rating"` // 1-5
	Text   *string   `db:"text"`
}

// ReviewWithAuthor is a review joined with its author's name and item title.
type ReviewWithAuthor struct {
	Review
	UserName  string `db:"user_name"`
	ItemTitle string `db:"item_title"`
}
