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

// PixGateway is the PIX/card alternative provider: it creates a billing and
// confirms it on a webhook authenticated by a shared-secret query parameter.
type PixGateway struct {
	client *resty.Client
}

// NewPixGateway builds a client against the configured PIX provider
func NewPixGateway() *PixGateway {
	client := resty.New().
		SetBaseURL(config.AppConfig.PixGatewayURL).
		SetHeader("Authorization", "Bearer "+config.AppConfig.PixGatewayKey).
		SetTimeout(20 * time.Second)
	return &PixGateway{client: client}
}

func (g *PixGateway) Name() string {
	return models.GatewayPix
}

// CreateSession creates a billing on the PIX provider
func (g *PixGateway) CreateSession(req checkout.SessionRequest) (*checkout.SessionInfo, error) {
	payload := map[string]interface{}{
		"frequency": "ONE_TIME",
		"methods":   []string{"PIX", "CARD"},
		"amount":    req.AmountCents,
		"customer": map[string]string{
			"name":  req.Customer.Name,
			"email": req.Customer.Email,
		},
		"metadata":    req.Metadata,
		"external_id": req.Reference,
	}

	resp, err := g.client.R().
		SetBody(payload).
		Post("/billing")
	if err != nil {
		return nil, fmt.Errorf("pix gateway unreachable: %v", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, fmt.Errorf("pix gateway error: %s", resp.String())
	}

	var billingResp struct {
		Data struct {
			ID     string `json:"id"`
			URL    string `json:"url"`
			Amount int64  `json:"amount"`
		} `json:"data"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &billingResp); err != nil {
		return nil, fmt.Errorf("invalid pix gateway response: %v", err)
	}
	if billingResp.Error != "" {
		return nil, fmt.Errorf("pix gateway error: %s", billingResp.Error)
	}
	if billingResp.Data.ID == "" || billingResp.Data.URL == "" {
		return nil, fmt.Errorf("pix gateway response missing billing id or url")
	}

	return &checkout.SessionInfo{ID: billingResp.Data.ID, URL: billingResp.Data.URL}, nil
}
