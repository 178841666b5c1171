package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatewayStub fakes the payment gateway: one known affiliate link and a
// configurable delay on the register endpoint.
func gatewayStub(t *testing.T, knownLink string, affiliateUserID uuid.UUID, registerDelay time.Duration) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers/validate-affiliate/", func(w http.ResponseWriter, r *http.Request) {
		link := strings.TrimPrefix(r.URL.Path, "/api/customers/validate-affiliate/")
		if link != knownLink {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"valid":           true,
				"affiliateUserId": affiliateUserID,
				"userName":        "Stub Broker",
			},
		})
	})
	mux.HandleFunc("/api/customers/register", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(registerDelay)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func validCustomerPayload() map[string]string {
	return map[string]string{
		"name":     "New Customer",
		"email":    "customer@example.com",
		"password": "longenough",
		"document": "52998224725",
		"phone":    "+5511977776666",
		"birthday": "1995-08-20",
	}
}

func TestCustomerCreate(t *testing.T) {
	brokerID := uuid.New()
	stub := gatewayStub(t, "aff-known-link", brokerID, 0)
	ts := testutil.NewTestServer(t, testutil.WithGatewayURL(stub.URL))

	tests := []struct {
		name           string
		payload        func() map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "create without affiliate link",
			payload:        validCustomerPayload,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result struct {
					Customer domain.Customer `json:"customer"`
					Message  string          `json:"message"`
				}
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "customer created", result.Message)
				assert.Nil(t, result.Customer.AffiliateUserID)
			},
		},
		{
			name: "create with valid affiliate link",
			payload: func() map[string]string {
				p := validCustomerPayload()
				p["affiliate_link"] = "aff-known-link"
				return p
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result struct {
					Customer domain.Customer `json:"customer"`
					Message  string          `json:"message"`
				}
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "customer created and linked to affiliate", result.Message)
				require.NotNil(t, result.Customer.AffiliateUserID)
				assert.Equal(t, brokerID, *result.Customer.AffiliateUserID)
			},
		},
		{
			name: "unknown affiliate link rejects the request",
			payload: func() map[string]string {
				p := validCustomerPayload()
				p["affiliate_link"] = "aff-nobody"
				return p
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationErrors(t, resp, "invalid or unknown affiliate link")
			},
		},
		{
			name: "CNPJ rejected, customers are CPF only",
			payload: func() map[string]string {
				p := validCustomerPayload()
				p["document"] = "11222333000181"
				p["password"] = "short"
				return p
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationErrors(t, resp,
					"document (CPF) is required and must be a valid CPF",
					"password must be at least 6 characters",
				)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)
			testutil.SeedCustomerLevels(t, ts.DB.DB)

			body, _ := json.Marshal(tt.payload())
			resp, err := http.Post(ts.APIURL("/customers"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestCustomerCreate_GatewayDegradesToWarning(t *testing.T) {
	// The register endpoint stalls past the client timeout; the customer
	// is still created, unlinked, with a warning message
	stub := gatewayStub(t, "aff-known-link", uuid.New(), 2*time.Second)
	ts := testutil.NewTestServer(t, testutil.WithGatewayURL(stub.URL))
	testutil.SeedCustomerLevels(t, ts.DB.DB)

	payload := validCustomerPayload()
	payload["affiliate_link"] = "aff-known-link"
	body, _ := json.Marshal(payload)

	resp, err := http.Post(ts.APIURL("/customers"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var result struct {
		Customer domain.Customer `json:"customer"`
		Message  string          `json:"message"`
	}
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, "payment gateway unavailable, affiliate link not processed", result.Message)

	var stored domain.Customer
	require.NoError(t, ts.DB.DB.First(&stored, "id = ?", result.Customer.ID).Error)
	assert.Nil(t, stored.AffiliateUserID)
}

func TestCustomerLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedCustomerLevels(t, ts.DB.DB)

	customer, password := testutil.NewCustomerBuilder().Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{"email": customer.Email, "password": password})
	resp, err := http.Post(ts.APIURL("/customers/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result struct {
		Token string `json:"token"`
	}
	testutil.AssertJSONResponse(t, resp, &result)
	require.NotEmpty(t, result.Token)

	// The token opens customer routes
	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet,
		ts.APIURL(fmt.Sprintf("/customers/%s", customer.ID)), nil, result.Token)
	getResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer getResp.Body.Close()
	testutil.AssertStatusCode(t, getResp, http.StatusOK)

	// Wrong password gets the generic message
	body, _ = json.Marshal(map[string]string{"email": customer.Email, "password": "wrong"})
	badResp, err := http.Post(ts.APIURL("/customers/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer badResp.Body.Close()
	testutil.AssertErrorResponse(t, badResp, http.StatusUnauthorized, "invalid credentials")
}

func TestCustomerBroker(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	testutil.SeedCustomerLevels(t, ts.DB.DB)
	roles := testutil.SeedRoles(t, ts.DB.DB)

	broker, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	testutil.SeedAffiliate(t, ts.DB.DB, broker, roles[domain.RoleBroker])

	customer, password := testutil.NewCustomerBuilder().Build(t, ts.DB.DB)
	require.NoError(t, ts.DB.DB.Model(&domain.Customer{}).
		Where("id = ?", customer.ID).
		Update("affiliate_user_id", broker.ID).Error)

	body, _ := json.Marshal(map[string]string{"email": customer.Email, "password": password})
	resp, err := http.Post(ts.APIURL("/customers/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var login struct {
		Token string `json:"token"`
	}
	testutil.AssertJSONResponse(t, resp, &login)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet,
		ts.APIURL(fmt.Sprintf("/customers/%s/broker", customer.ID)), nil, login.Token)
	brokerResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer brokerResp.Body.Close()
	testutil.AssertStatusCode(t, brokerResp, http.StatusOK)

	var result domain.User
	testutil.AssertJSONResponse(t, brokerResp, &result)
	assert.Equal(t, broker.ID, result.ID)
	assert.Equal(t, broker.Email, result.Email)
}

func TestCustomerUpdate_PointsRecomputeLevel(t *testing.T) {
	ts := testutil.NewTestServer(t)
	levels := testutil.SeedCustomerLevels(t, ts.DB.DB)

	customer, password := testutil.NewCustomerBuilder().Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{"email": customer.Email, "password": password})
	resp, err := http.Post(ts.APIURL("/customers/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var login struct {
		Token string `json:"token"`
	}
	testutil.AssertJSONResponse(t, resp, &login)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPut,
		ts.APIURL(fmt.Sprintf("/customers/%s", customer.ID)),
		map[string]int{"points": 75}, login.Token)
	updateResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer updateResp.Body.Close()
	testutil.AssertStatusCode(t, updateResp, http.StatusOK)

	var updated domain.Customer
	require.NoError(t, ts.DB.DB.First(&updated, "id = ?", customer.ID).Error)
	assert.Equal(t, 75, updated.Points)
	assert.Equal(t, levels[1].ID, updated.LevelID)
}
