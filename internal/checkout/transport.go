package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skinker-shop/internal/model"
	"skinker-shop/internal/money"
)

// DefaultTimeout bounds a single transport call.
const DefaultTimeout = 15 * time.Second

// Receipt is what a transport reports after accepting an order.
type Receipt struct {
	// OrderID is empty when the transport does not persist orders.
	OrderID string
	Message string
}

// Transport delivers an order request somewhere it will be fulfilled.
type Transport interface {
	Submit(ctx context.Context, req *model.OrderRequest) (*Receipt, error)
}

// SubmissionError reports an order the transport did not accept.
type SubmissionError struct {
	// Status is the HTTP status received, or zero when no response arrived.
	Status  int
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("order submission failed: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("order submission failed (%d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("order submission failed (%d)", e.Status)
	}
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// HTTPTransport posts orders to the storefront API, which persists them.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates a transport for the API at baseURL. A nil client
// gets one with DefaultTimeout.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Submit sends POST /api/orders. Anything but 201 is a SubmissionError
// carrying the server's message.
func (t *HTTPTransport) Submit(ctx context.Context, req *model.OrderRequest) (*Receipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, &SubmissionError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	var created model.CreateOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, &SubmissionError{Status: resp.StatusCode, Err: fmt.Errorf("invalid response: %w", err)}
	}

	return &Receipt{OrderID: created.ID.String(), Message: created.Message}, nil
}

// Products fetches the catalogue, optionally for one category.
func (t *HTTPTransport) Products(ctx context.Context, category string) ([]model.Product, error) {
	endpoint := t.baseURL + "/api/products"
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build products request: %w", err)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch products (%d): %s", resp.StatusCode, errorMessage(resp.Body))
	}

	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 64<<10))

	var apiErr model.ErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return strings.TrimSpace(string(raw))
}

// DefaultRelayEndpoint is the EmailJS REST endpoint.
const DefaultRelayEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// RelayConfig identifies the EmailJS template that receives orders.
type RelayConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	ToEmail    string
}

// RelayTransport emails the order summary through EmailJS without
// persisting it. A successful relay call counts as an accepted order.
type RelayTransport struct {
	cfg    RelayConfig
	client *http.Client
}

// NewRelayTransport creates a relay transport. A nil client gets one with
// DefaultTimeout.
func NewRelayTransport(cfg RelayConfig, client *http.Client) *RelayTransport {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultRelayEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &RelayTransport{cfg: cfg, client: client}
}

type relayRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Submit sends the order summary to the relay.
func (t *RelayTransport) Submit(ctx context.Context, req *model.OrderRequest) (*Receipt, error) {
	lines := make([]string, len(req.Items))
	for i, item := range req.Items {
		lines[i] = fmt.Sprintf("%s x %d", item.Name, item.Quantity)
	}

	body, err := json.Marshal(relayRequest{
		ServiceID:  t.cfg.ServiceID,
		TemplateID: t.cfg.TemplateID,
		UserID:     t.cfg.PublicKey,
		TemplateParams: map[string]string{
			"customer_name":  req.CustomerName,
			"customer_email": req.CustomerEmail,
			"customer_phone": req.CustomerPhone,
			"items_list":     strings.Join(lines, "\n"),
			"total_amount":   money.Format(req.TotalAmount),
			"to_email":       t.cfg.ToEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SubmissionError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	return &Receipt{Message: model.MsgOrderCreated}, nil
}
