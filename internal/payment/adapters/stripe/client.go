package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sabaispa/sabai/internal/payment/domain"
)

const defaultAPIBaseURL = "https://api.stripe.com"

// Client is the outbound Stripe API client used to create hosted checkout
// sessions.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: baseURL,
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession posts the line items to Stripe. Prices are whole Baht
// and Stripe expects satang, hence the x100. The ledger id rides along in
// metadata so the webhook can route the outcome back.
func (c *Client) CreateCheckoutSession(ctx context.Context, req domain.CreateCheckoutSessionRequest) (domain.CheckoutSession, error) {
	if c.apiKey == "" {
		return domain.CheckoutSession{}, fmt.Errorf("stripe: api key is not configured")
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "thb"
	}

	values := url.Values{}
	values.Set("mode", "payment")
	values.Set("success_url", req.SuccessURL)
	values.Set("cancel_url", req.CancelURL)
	for i, item := range req.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		values.Set(prefix+"[price_data][currency]", currency)
		values.Set(prefix+"[price_data][product_data][name]", item.Name)
		values.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitPrice*100, 10))
		values.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
	}
	switch req.TargetKind {
	case domain.TargetOrder:
		values.Set("metadata[order_id]", req.TargetID)
	case domain.TargetBooking:
		values.Set("metadata[booking_id]", req.TargetID)
	}
	values.Set("payment_intent_data[metadata]["+string(req.TargetKind)+"_id]", req.TargetID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(values.Encode()))
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Idempotency-Key", string(req.TargetKind)+":"+req.TargetID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var stripeErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err != nil {
			return domain.CheckoutSession{}, fmt.Errorf("stripe: checkout session failed with status %d", resp.StatusCode)
		}
		return domain.CheckoutSession{}, fmt.Errorf("stripe: %s", stripeErr.Error.Message)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return domain.CheckoutSession{}, err
	}
	return domain.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}
