//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// errorEnvelope mirrors httperr.Response, including the toast console handlers put in detail.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail struct {
		Notification *struct {
			Kind    string `json:"kind"`
			Title   string `json:"title"`
			Message string `json:"message"`
		} `json:"notification"`
	} `json:"detail"`
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) {
	t.Helper()
	decodeError(t, w, expectedStatus, expectedErrorMsg)
}

// AssertErrorToast checks the error envelope and the error toast carried in its detail.
func AssertErrorToast(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedToastMsg string) {
	t.Helper()

	env := decodeError(t, w, expectedStatus, "")
	if !assert.NotNil(t, env.Detail.Notification, "error response carries no notification") {
		return
	}
	assert.Equal(t, "error", env.Detail.Notification.Kind)
	assert.Equal(t, "Error", env.Detail.Notification.Title)
	if expectedToastMsg != "" {
		assert.Contains(t, env.Detail.Notification.Message, expectedToastMsg)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) errorEnvelope {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d", expectedStatus, w.Code))

	var env errorEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &env)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	if expectedErrorMsg != "" {
		assert.Contains(t, env.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
	return env
}
