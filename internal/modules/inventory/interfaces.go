package inventory

import "realtyflow/internal/domain"

// Publisher receives unit events after the change that produced them has
// been committed.
type Publisher interface {
	Publish(event domain.UnitEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.UnitEvent) {}

// NopPublisher discards every event.
func NopPublisher() Publisher { return nopPublisher{} }
