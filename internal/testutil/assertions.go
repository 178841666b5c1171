package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertValidationErrors verifies a 400 response carrying the full list
// of validation messages and that each expected message is present
func AssertValidationErrors(t *testing.T, resp *http.Response, expectedMessages ...string) {
	t.Helper()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unexpected status code")

	var payload struct {
		Errors []string `json:"errors"`
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, json.Unmarshal(body, &payload), "failed to unmarshal response: %s", string(body))

	for _, expected := range expectedMessages {
		found := false
		for _, msg := range payload.Errors {
			if msg == expected {
				found = true
				break
			}
		}
		assert.True(t, found, "expected validation message %q in %v", expected, payload.Errors)
	}
}
