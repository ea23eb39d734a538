// Package queue publishes and consumes catalog change events over RabbitMQ.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Entity names the catalog table an event refers to.
type Entity string

const (
	EntityActor        Entity = "actor"
	EntityFilm         Entity = "film"
	EntityCategory     Entity = "category"
	EntityLanguage     Entity = "language"
	EntityFilmActor    Entity = "film_actor"
	EntityFilmCategory Entity = "film_category"
)

// Action is the kind of mutation.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionLinked   Action = "linked"
	ActionUnlinked Action = "unlinked"
)

// ChangedEvent is published after an admin mutation commits. For association
// events EntityID is the film and RelatedID the actor or category.
type ChangedEvent struct {
	ID         string    `json:"id"`
	Entity     Entity    `json:"entity"`
	EntityID   int64     `json:"entity_id"`
	RelatedID  int64     `json:"related_id,omitempty"`
	Action     Action    `json:"action"`
	Subject    string    `json:"subject,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewChangedEvent stamps a fresh event id and the current UTC time.
func NewChangedEvent(entity Entity, entityID int64, action Action) ChangedEvent {
	return ChangedEvent{
		ID:         uuid.NewString(),
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}
