// Package gateway holds the HTTP client for the external
// payment-gateway service that owns affiliate links.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WarningGatewayUnavailable is returned to callers when registration is
// skipped because the gateway could not be reached. The owning customer
// record is still created.
const WarningGatewayUnavailable = "payment gateway unavailable, affiliate link not processed"

// AffiliateValidation is the normalized result of a link check.
type AffiliateValidation struct {
	IsValid  bool
	UserID   *uuid.UUID
	UserName string
}

// RegisterResult carries the gateway's registration response, or a
// warning when the call degraded.
type RegisterResult struct {
	Warning string          `json:"warning,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Degraded reports whether the registration was skipped because the
// gateway was unreachable.
func (r *RegisterResult) Degraded() bool {
	return r.Warning != ""
}

type PaymentGatewayClient struct {
	baseURL        string
	internalSecret string
	validateClient *http.Client
	registerClient *http.Client
	logger         zerolog.Logger
}

func NewPaymentGatewayClient(baseURL, internalSecret string, validateTimeout, registerTimeout time.Duration, logger zerolog.Logger) *PaymentGatewayClient {
	return &PaymentGatewayClient{
		baseURL:        baseURL,
		internalSecret: internalSecret,
		validateClient: &http.Client{Timeout: validateTimeout},
		registerClient: &http.Client{Timeout: registerTimeout},
		logger:         logger.With().Str("component", "payment_gateway").Logger(),
	}
}

// wire format of GET /api/customers/validate-affiliate/{link}
type validateResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		Valid           bool       `json:"valid"`
		AffiliateUserID *uuid.UUID `json:"affiliateUserId"`
		UserName        string     `json:"userName"`
	} `json:"data"`
}

// ValidateAffiliateLink checks a link against the gateway. An
// unreachable gateway, a 404 or an unexpected body all yield an invalid
// result; only unexpected transport or server errors propagate.
func (c *PaymentGatewayClient) ValidateAffiliateLink(ctx context.Context, link string) (*AffiliateValidation, error) {
	url := fmt.Sprintf("%s/api/customers/validate-affiliate/%s", c.baseURL, link)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.validateClient.Do(req)
	if err != nil {
		if isUnavailable(err) {
			c.logger.Warn().Str("link", link).Msg("gateway unavailable for link validation")
			return &AffiliateValidation{IsValid: false}, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &AffiliateValidation{IsValid: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d validating affiliate link", resp.StatusCode)
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success || body.Data == nil {
		c.logger.Warn().Str("link", link).Msg("unexpected validation response shape, treating link as invalid")
		return &AffiliateValidation{IsValid: false}, nil
	}

	return &AffiliateValidation{
		IsValid:  body.Data.Valid,
		UserID:   body.Data.AffiliateUserID,
		UserName: body.Data.UserName,
	}, nil
}

type registerRequest struct {
	CustomerData  interface{} `json:"customerData"`
	AffiliateLink string      `json:"affiliateLink"`
}

// RegisterCustomerWithAffiliate registers an already-created customer
// against an affiliate link. Timeouts and refused connections degrade
// to a warning result; any other failure propagates.
func (c *PaymentGatewayClient) RegisterCustomerWithAffiliate(ctx context.Context, customerData interface{}, affiliateLink string) (*RegisterResult, error) {
	payload, err := json.Marshal(registerRequest{CustomerData: customerData, AffiliateLink: affiliateLink})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/customers/register", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Secret", c.internalSecret)

	resp, err := c.registerClient.Do(req)
	if err != nil {
		if isUnavailable(err) {
			c.logger.Warn().Str("link", affiliateLink).Msg("gateway unavailable, customer kept without affiliate linkage")
			return &RegisterResult{Warning: WarningGatewayUnavailable}, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned status %d registering customer", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{Data: data}, nil
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
