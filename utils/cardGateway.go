package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"coursebox/config"
	"coursebox/models"
	"coursebox/services/checkout"

	"github.com/go-resty/resty/v2"
)

// CardGateway is the card-based provider: it hosts a checkout session and
// reports the result back on a signed webhook.
type CardGateway struct {
	client *resty.Client
}

// NewCardGateway builds a client against the configured card provider
func NewCardGateway() *CardGateway {
	client := resty.New().
		SetBaseURL(config.AppConfig.CardGatewayURL).
		SetHeader("Authorization", "Bearer "+config.AppConfig.CardGatewayKey).
		SetTimeout(20 * time.Second)
	return &CardGateway{client: client}
}

func (g *CardGateway) Name() string {
	return models.GatewayCard
}

// CreateSession opens a provider-hosted checkout session
func (g *CardGateway) CreateSession(req checkout.SessionRequest) (*checkout.SessionInfo, error) {
	payload := map[string]interface{}{
		"reference":      req.Reference,
		"amount":         req.AmountCents,
		"currency":       req.Currency,
		"customer_name":  req.Customer.Name,
		"customer_email": req.Customer.Email,
		"metadata":       req.Metadata,
		"success_url":    config.AppConfig.CheckoutSuccessURL,
		"cancel_url":     config.AppConfig.CheckoutCancelURL,
	}

	resp, err := g.client.R().
		SetBody(payload).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("card gateway unreachable: %v", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, fmt.Errorf("card gateway error: %s", resp.String())
	}

	var sessionResp struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &sessionResp); err != nil {
		return nil, fmt.Errorf("invalid card gateway response: %v", err)
	}
	if sessionResp.ID == "" || sessionResp.URL == "" {
		return nil, fmt.Errorf("card gateway response missing session id or url")
	}

	return &checkout.SessionInfo{ID: sessionResp.ID, URL: sessionResp.URL}, nil
}
