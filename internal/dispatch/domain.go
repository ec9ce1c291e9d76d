// Package dispatch implements buyer matching and webhook fan-out for
// finalized leads.
package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Lead is the dispatch-relevant projection of a captured lead. Leads are
// created elsewhere; dispatch only reads them and writes the sold marker.
type Lead struct {
	ID                uuid.UUID
	Email             string
	Company           string
	Industry          string
	LeadType          string
	Score             int
	ReadinessScore    int
	EstimatedCostLow  int
	EstimatedCostHigh int
	NumEmployees      int
	UTMSource         string
	UTMMedium         string
	UTMCampaign       string
	IsTest            bool
	IsPartial         bool
	Sold              bool
	CreatedAt         time.Time
}

// Webhook is one delivery endpoint of a buyer.
type Webhook struct {
	ID           uuid.UUID
	URL          string
	SecretHeader string
	SecretValue  string
	IsActive     bool
}

// Buyer is a lead subscriber with its matching criteria and endpoints.
type Buyer struct {
	ID           uuid.UUID
	Name         string
	ContactEmail string
	Active       bool
	LeadTypes    []string
	MinScore     int
	Webhooks     []Webhook
}

/// Matches reports whether this buyer qualifies for the lead: the buyer must
// be active, subscribe to the lead's type (or the wildcard), and have its
// minimum score met.
func (b Buyer) Matches(lead *Lead) bool {
	if !b.Active {
		return false
	}
	if lead.Score < b.MinScore {
		return false
	}
	for _, lt := range b.LeadTypes {
		if lt == lead.LeadType || lt == "*" {
			return true
		}
	}
	return false
}
