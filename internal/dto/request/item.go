package request

import "encoding/json"

type CreateItemRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Type        string          `json:"type" validate:"required,max=50"`
	Description *string         `json:"description,omitempty"`
	ReleaseYear *int            `json:"releaseYear,omitempty" validate:"omitnil,min=0,max=9999"`
	Genre       *string         `json:"genre,omitempty" validate:"omitnil,max=100"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// UpdateItemRequest is a partial update. An empty description or genre
// clears it; "metadata": null clears the metadata.
type UpdateItemRequest struct {
	Title       *string         `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Type        *string         `json:"type,omitempty" validate:"omitnil,min=1,max=50"`
	Description *string         `json:"description,omitempty"`
	ReleaseYear *int            `json:"releaseYear,omitempty" validate:"omitnil,min=0,max=9999"`
	Genre       *string         `json:"genre,omitempty" validate:"omitnil,max=100"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

func (r UpdateItemRequest) IsEmpty() bool {
	return r.Title == nil && r.Type == nil && r.Description == nil &&
		r.ReleaseYear == nil && r.Genre == nil && r.Metadata == nil
}

// ItemListQuery holds the GET /item query string.
type ItemListQuery struct {
	Type        *string
	ReleaseYear *int
	SearchTitle *string
}
