package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// paymentService talks to the hosted payment provider over plain
// JSON-over-HTTPS. Only partial refunds against a stored payment reference
// are needed here; charges happen in the provider's own checkout flow.
type paymentService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPaymentService(baseURL, apiKey string, timeout time.Duration) PaymentService {
	return &paymentService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type refundRequest struct {
	PaymentRef     string `json:"payment_ref"`
	AmountCents    int32  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key"`
}

type refundResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

func (s *paymentService) Refund(ctx context.Context, paymentRef string, amountCents int32) error {
	if paymentRef == "" {
		return errors.New("missing payment reference")
	}
	if amountCents <= 0 {
		return fmt.Errorf("invalid refund amount: %d", amountCents)
	}

	body, err := json.Marshal(refundRequest{
		PaymentRef:     paymentRef,
		AmountCents:    amountCents,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/refunds", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	var out refundResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode refund response: %w", err)
	}
	if resp.StatusCode >= 400 || out.Status == "failed" {
		return fmt.Errorf("refund rejected: status %d, error %q", resp.StatusCode, out.Error)
	}
	return nil
}
