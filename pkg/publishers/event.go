package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/digest-merchant-sdk/internal/domain"
)

// EventCheckoutCreated is emitted once a hosted checkout has been created.
const EventCheckoutCreated = "checkout.created"

// Event represents the payload published downstream.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Service   string          `json:"service"`
	Checkout  domain.Checkout `json:"checkout"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewCheckoutEvent constructs a checkout.created Event for the given record.
func NewCheckoutEvent(checkout domain.Checkout) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventCheckoutCreated,
		Service:   checkout.Service,
		Checkout:  checkout,
		CreatedAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":   e.ID,
		"event_type": e.Type,
		"service":    e.Service,
	}
}
