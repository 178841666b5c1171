package gateway_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/gateway"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(baseURL string) *gateway.PaymentGatewayClient {
	return gateway.NewPaymentGatewayClient(baseURL, "test-secret", 500*time.Millisecond, 500*time.Millisecond, zerolog.Nop())
}

func TestValidateAffiliateLink(t *testing.T) {
	affiliateID := uuid.New()

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantValid bool
		wantErr   bool
	}{
		{
			name: "valid link",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/customers/validate-affiliate/aff-123", r.URL.Path)
				fmt.Fprintf(w, `{"success":true,"data":{"valid":true,"affiliateUserId":"%s","userName":"Carlos"}}`, affiliateID)
			},
			wantValid: true,
		},
		{
			name: "unknown link returns 404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantValid: false,
		},
		{
			name: "unexpected body shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"success":false}`)
			},
			wantValid: false,
		},
		{
			name: "server error propagates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newClient(server.URL)
			result, err := client.ValidateAffiliateLink(context.Background(), "aff-123")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.IsValid)
			if tt.wantValid {
				require.NotNil(t, result.UserID)
				assert.Equal(t, affiliateID, *result.UserID)
				assert.Equal(t, "Carlos", result.UserName)
			}
		})
	}
}

func TestValidateAffiliateLink_GatewayDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	client := newClient(server.URL)
	result, err := client.ValidateAffiliateLink(context.Background(), "aff-123")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
}

func TestRegisterCustomerWithAffiliate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers/register", r.URL.Path)
		assert.Equal(t, "test-secret", r.Header.Get("X-Internal-Secret"))
		fmt.Fprint(w, `{"registered":true}`)
	}))
	defer server.Close()

	client := newClient(server.URL)
	result, err := client.RegisterCustomerWithAffiliate(context.Background(), map[string]string{"name": "Ana"}, "aff-123")

	require.NoError(t, err)
	assert.False(t, result.Degraded())
	assert.JSONEq(t, `{"registered":true}`, string(result.Data))
}

func TestRegisterCustomerWithAffiliate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := newClient(server.URL)
	result, err := client.RegisterCustomerWithAffiliate(context.Background(), map[string]string{"name": "Ana"}, "aff-123")

	require.NoError(t, err)
	assert.True(t, result.Degraded())
	assert.Equal(t, gateway.WarningGatewayUnavailable, result.Warning)
}

func TestRegisterCustomerWithAffiliate_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := newClient(server.URL)
	result, err := client.RegisterCustomerWithAffiliate(context.Background(), map[string]string{"name": "Ana"}, "aff-123")

	require.NoError(t, err)
	assert.True(t, result.Degraded())
}

func TestRegisterCustomerWithAffiliate_ServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newClient(server.URL)
	_, err := client.RegisterCustomerWithAffiliate(context.Background(), map[string]string{"name": "Ana"}, "aff-123")

	assert.Error(t, err)
}
