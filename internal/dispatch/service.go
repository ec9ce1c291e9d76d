package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"risclens_backend/internal/audit"
	"risclens_backend/internal/events"
	"risclens_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSecretHeader is used when a webhook has no header name configured.
	DefaultSecretHeader = "X-Lead-Secret"

	deliveryTimeout  = 10 * time.Second
	eventLeadCreated = "lead.created"
)

// Service runs the buyer matching and webhook fan-out for one lead.
type Service struct {
	repo    Repository
	client  *http.Client
	bus     events.Bus
	auditor *audit.Logger
	log     *logger.Logger
}

func NewService(repo Repository, bus events.Bus, auditor *audit.Logger, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		client:  &http.Client{Timeout: deliveryTimeout},
		bus:     bus,
		auditor: auditor,
		log:     log,
	}
}

type webhookPayload struct {
	Event        string       `json:"event"`
	Timestamp    string       `json:"timestamp"`
	Lead         leadPayload  `json:"lead"`
	BuyerContext buyerContext `json:"buyer_context"`
}

type leadPayload struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Company           string `json:"company"`
	Industry          string `json:"industry"`
	Score             int    `json:"score"`
	ReadinessScore    int    `json:"readiness_score"`
	EstimatedCostLow  int    `json:"estimated_cost_low"`
	EstimatedCostHigh int    `json:"estimated_cost_high"`
	NumEmployees      int    `json:"num_employees"`
	UTMSource         string `json:"utm_source"`
	UTMMedium         string `json:"utm_medium"`
	UTMCampaign       string `json:"utm_campaign"`
}

type buyerContext struct {
	BuyerID    string `json:"buyer_id"`
	MatchScore int    `json:"match_score"`
}

// Dispatch matches the lead against all active buyers and delivers the
// webhook notifications concurrently. Delivery failures are logged and never
// surfaced; the only error a caller sees is a missing lead or a failed
// registry read.
func (s *Service) Dispatch(ctx context.Context, leadID uuid.UUID) error {
	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return err
	}

	// Test and partial leads never reach buyers, regardless of configuration.
	if lead.IsTest || lead.IsPartial {
		s.log.Debug("skipping dispatch for test/partial lead", "lead_id", leadID)
		return nil
	}

	buyers, err := s.repo.ListActiveBuyers(ctx)
	if err != nil {
		return err
	}

	var matched []Buyer
	for _, b := range buyers {
		if b.Matches(lead) {
			matched = append(matched, b)
		}
	}
	if len(matched) == 0 {
		s.log.Info("no matching buyers for lead", "lead_id", leadID, "score", lead.Score)
		return nil
	}

	s.auditor.Log(ctx, "lead.dispatch.started", map[string]any{
		"lead_id":        leadID.String(),
		"score":          lead.Score,
		"matched_buyers": len(matched),
	}, audit.Options{LeadID: leadID.String(), Route: "leads/dispatch"})

	// All deliveries for the lead run concurrently and independently; a
	// rejected endpoint must not block or cancel its siblings, so delivery
	// goroutines never return an error into the group.
	g := new(errgroup.Group)
	for _, buyer := range matched {
		for _, wh := range buyer.Webhooks {
			if !wh.IsActive {
				continue
			}
			buyer, wh := buyer, wh
			g.Go(func() error {
				s.deliver(ctx, lead, buyer, wh)
				return nil
			})
		}
	}
	_ = g.Wait()

	return nil
}

func (s *Service) deliver(ctx context.Context, lead *Lead, buyer Buyer, wh Webhook) {
	payload := webhookPayload{
		Event:     eventLeadCreated,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Lead: leadPayload{
			ID:                lead.ID.String(),
			Email:             lead.Email,
			Company:           lead.Company,
			Industry:          lead.Industry,
			Score:             lead.Score,
			ReadinessScore:    lead.ReadinessScore,
			EstimatedCostLow:  lead.EstimatedCostLow,
			EstimatedCostHigh: lead.EstimatedCostHigh,
			NumEmployees:      lead.NumEmployees,
			UTMSource:         lead.UTMSource,
			UTMMedium:         lead.UTMMedium,
			UTMCampaign:       lead.UTMCampaign,
		},
		BuyerContext: buyerContext{BuyerID: buyer.ID.String(), MatchScore: lead.Score},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.log.WebhookDelivery(buyer.Name, wh.URL, 0, false, err.Error())
		return
	}

	deliveryCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(deliveryCtx, http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		s.log.WebhookDelivery(buyer.Name, wh.URL, 0, false, err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	secretHeader := wh.SecretHeader
	if secretHeader == "" {
		secretHeader = DefaultSecretHeader
	}
	req.Header.Set(secretHeader, wh.SecretValue)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.WebhookDelivery(buyer.Name, wh.URL, 0, false, err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.WebhookDelivery(buyer.Name, wh.URL, resp.StatusCode, false, fmt.Sprintf("HTTP %d", resp.StatusCode))
		return
	}

	s.log.WebhookDelivery(buyer.Name, wh.URL, resp.StatusCode, true, "")
	s.markSold(ctx, lead, buyer)
}

// markSold claims the lead once. Concurrent successful deliveries race on the
// conditional update; only the winner publishes LeadDispatched. All matching
// buyers are still notified; sold is a one-shot flag, not an exclusivity lock.
func (s *Service) markSold(ctx context.Context, lead *Lead, buyer Buyer) {
	claimed, err := s.repo.MarkSold(ctx, lead.ID, buyer.ContactEmail)
	if err != nil {
		s.log.DatabaseError("mark lead sold", err)
		return
	}
	if !claimed {
		return
	}

	s.bus.Publish(ctx, events.LeadDispatched{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		BuyerID:    buyer.ID,
		BuyerName:  buyer.Name,
		BuyerEmail: buyer.ContactEmail,
		Company:    lead.Company,
		Score:      lead.Score,
	})

	s.log.Info("lead marked sold", "lead_id", lead.ID, "buyer", buyer.Name)
}
