package khalti

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fashionhub/storefront-backend/pkg/config"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/logger"
)

const (
	initiatePath = "/epayment/initiate/"
	lookupPath   = "/epayment/lookup/"

	// StatusCompleted is the lookup status for a settled payment.
	StatusCompleted = "Completed"
	// StatusPending means the gateway has not settled the payment yet.
	StatusPending = "Pending"
)

var (
	errSecretKeyRequired = errors.New("khalti secret key is required")
	errLoggerRequired    = errors.New("khalti logger is required")
)

// Client wraps the Khalti web-checkout API with centralized auth, bounded
// timeouts, logging, and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	returnURL  string
	websiteURL string
	logger     *logger.Logger
}

// NewClient initializes the Khalti wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.GatewayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, errSecretKeyRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:  secret,
		returnURL:  cfg.ReturnURL,
		websiteURL: cfg.WebsiteURL,
		logger:     logg,
	}

	logg.Info(ctx, "khalti client initialized")
	return c, nil
}

// CustomerInfo identifies the payer on the hosted checkout page.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// InitiateParams starts a hosted checkout. AmountPaisa is in minor currency
// units (1 NPR = 100 paisa).
type InitiateParams struct {
	AmountPaisa       int64
	PurchaseOrderID   string
	PurchaseOrderName string
	Customer          CustomerInfo
}

// InitiateResult carries the redirect target and the transaction reference
// used for later verification.
type InitiateResult struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

// LookupResult is the gateway's view of one transaction.
type LookupResult struct {
	Pidx          string `json:"pidx"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// Completed reports whether the payment has settled.
func (r LookupResult) Completed() bool {
	return r.Status == StatusCompleted
}

type initiateRequest struct {
	ReturnURL         string       `json:"return_url"`
	WebsiteURL        string       `json:"website_url"`
	Amount            int64        `json:"amount"`
	PurchaseOrderID   string       `json:"purchase_order_id"`
	PurchaseOrderName string       `json:"purchase_order_name"`
	CustomerInfo      CustomerInfo `json:"customer_info"`
}

type lookupRequest struct {
	Pidx string `json:"pidx"`
}

type gatewayError struct {
	Detail string `json:"detail"`
}

// Initiate registers a checkout with the gateway and returns the hosted
// payment URL.
func (c *Client) Initiate(ctx context.Context, params InitiateParams) (*InitiateResult, error) {
	if params.AmountPaisa <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	c.log(ctx, "request", "initiate", map[string]any{
		"purchase_order_id": params.PurchaseOrderID,
		"amount_paisa":      params.AmountPaisa,
	})

	var result InitiateResult
	err := c.post(ctx, initiatePath, initiateRequest{
		ReturnURL:         c.returnURL,
		WebsiteURL:        c.websiteURL,
		Amount:            params.AmountPaisa,
		PurchaseOrderID:   params.PurchaseOrderID,
		PurchaseOrderName: params.PurchaseOrderName,
		CustomerInfo:      params.Customer,
	}, &result)
	if err != nil {
		c.log(ctx, "error", "initiate", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "initiate", map[string]any{"pidx": result.Pidx})
	return &result, nil
}

// Lookup verifies a transaction by its pidx reference.
func (c *Client) Lookup(ctx context.Context, pidx string) (*LookupResult, error) {
	if strings.TrimSpace(pidx) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pidx is required")
	}

	c.log(ctx, "request", "lookup", map[string]any{"pidx": pidx})

	var result LookupResult
	if err := c.post(ctx, lookupPath, lookupRequest{Pidx: pidx}, &result); err != nil {
		c.log(ctx, "error", "lookup", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "lookup", map[string]any{
		"pidx":   result.Pidx,
		"status": result.Status,
	})
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set("Authorization", "Key "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return pkgerrors.Wrap(pkgerrors.CodeGatewayTimeout, err, "gateway timed out")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gateway unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read gateway response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(raw))
		var ge gatewayError
		if json.Unmarshal(raw, &ge) == nil && ge.Detail != "" {
			detail = ge.Detail
		}
		return pkgerrors.New(pkgerrors.CodeGatewayRejected,
			fmt.Sprintf("gateway rejected request (%d)", resp.StatusCode)).
			WithDetails(map[string]any{"detail": detail})
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway response")
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) log(ctx context.Context, stage, operation string, fields map[string]any) {
	if c.logger == nil {
		return
	}
	fields["gateway"] = "khalti"
	fields["stage"] = stage
	fields["operation"] = operation
	ctx = c.logger.WithFields(ctx, fields)
	c.logger.Info(ctx, "khalti "+operation+" "+stage)
}
