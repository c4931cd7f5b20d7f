// Package events defines the domain events emitted after catalog changes.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ReviewCreated Type = "review.created"
	ReviewUpdated Type = "review.updated"
	ReviewDeleted Type = "review.deleted"
	ItemDeleted   Type = "item.deleted"
	UserDeleted   Type = "user.deleted"
)

// Event is the JSON payload published for each change.
type Event struct {
	Type       Type       `json:"type"`
	ResourceID uuid.UUID  `json:"resourceId"`
	ItemID     *uuid.UUID `json:"itemId,omitempty"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	Rating     int        `json:"rating,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// Publisher delivers events to subscribers. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
