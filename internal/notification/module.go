// Package notification reacts to domain events with outbound notifications.
package notification

import (
	"context"

	"risclens_backend/internal/email"
	"risclens_backend/internal/events"
	"risclens_backend/platform/logger"
)

// Module subscribes to dispatch events and emails the buyer contact. It has
// no HTTP surface.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

// NewModule wires the notification module. sender may be nil when SMTP is
// not configured; the subscription then only logs.
func NewModule(bus events.Bus, sender email.Sender, log *logger.Logger) *Module {
	m := &Module{sender: sender, log: log}

	bus.Subscribe(events.EventLeadDispatched, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadDispatched)
		if !ok {
			return nil
		}
		m.handleLeadDispatched(ctx, e)
		return nil
	}))

	return m
}

func (m *Module) handleLeadDispatched(ctx context.Context, e events.LeadDispatched) {
	if m.sender == nil || e.BuyerEmail == "" {
		m.log.Debug("skipping lead-sold email", "lead_id", e.LeadID, "buyer", e.BuyerName)
		return
	}

	err := m.sender.SendLeadSoldEmail(ctx, e.BuyerEmail, email.LeadSoldData{
		BuyerName: e.BuyerName,
		Company:   e.Company,
		Score:     e.Score,
		LeadID:    e.LeadID.String(),
	})
	if err != nil {
		m.log.Error("lead-sold email failed", "lead_id", e.LeadID, "buyer", e.BuyerName, "error", err.Error())
		return
	}
	m.log.Info("lead-sold email sent", "lead_id", e.LeadID, "buyer", e.BuyerName)
}
