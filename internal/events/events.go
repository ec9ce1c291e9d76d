package events

import "github.com/google/uuid"

// Event names for cross-module subscriptions.
const (
	EventLeadFinalized   = "lead.finalized"
	EventLeadDispatched  = "lead.dispatched"
	EventDomainExtracted = "intel.domain.extracted"
)

// LeadFinalized is published when a captured lead becomes complete and
// eligible for buyer dispatch.
type LeadFinalized struct {
	BaseEvent
	LeadID uuid.UUID
}

// EventName returns the event identifier.
func (LeadFinalized) EventName() string { return EventLeadFinalized }

// LeadDispatched is published after the first successful webhook delivery
// for a lead.
type LeadDispatched struct {
	BaseEvent
	LeadID     uuid.UUID
	BuyerID    uuid.UUID
	BuyerName  string
	BuyerEmail string
	Company    string
	Score      int
}

// EventName returns the event identifier.
func (LeadDispatched) EventName() string { return EventLeadDispatched }

// DomainExtracted is published when a signal extraction run completes.
type DomainExtracted struct {
	BaseEvent
	Domain    string
	Score     int
	Indexable bool
}

// EventName returns the event identifier.
func (DomainExtracted) EventName() string { return EventDomainExtracted }
