package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPollInterval = 5 * time.Millisecond

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(endpoint, "model-1", "secret", 4, testPollInterval, logger.NewNop())
	require.NoError(t, err)
	return client
}

func writeResult(w http.ResponseWriter, fields map[string]map[string]string) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "succeeded",
		"analyzeResult": map[string]interface{}{
			"documentResults": []map[string]interface{}{
				{"fields": fields},
			},
		},
	})
}

func TestNewClientMissingConfig(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		modelID  string
		apiKey   string
	}{
		{"empty endpoint", "", "model", "key"},
		{"empty model", "http://x", "", "key"},
		{"empty key", "http://x", "model", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.endpoint, tt.modelID, tt.apiKey, 4, time.Second, logger.NewNop())
			assert.ErrorIs(t, err, entity.ErrMissingConfig)
		})
	}
}

func TestSubmitReturnsOperationLocation(t *testing.T) {
	var gotKey, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotContentType = r.Header.Get("Content-Type")
		assert.Contains(t, r.URL.Path, "/formrecognizer/v2.1/custom/models/model-1/analyze")
		w.Header().Set("Operation-Location", "http://jobs/42")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	handle, err := client.Submit(context.Background(), []byte("pdf bytes"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://jobs/42", handle)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/pdf", gotContentType)
}

func TestSubmitRejectedCarriesResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad model"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Submit(context.Background(), []byte("doc"), "application/pdf")

	var submissionErr *entity.SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.Equal(t, http.StatusBadRequest, submissionErr.StatusCode)
	assert.Contains(t, submissionErr.Body, "bad model")
}

func TestSubmitMissingOperationLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Submit(context.Background(), []byte("doc"), "application/pdf")

	var submissionErr *entity.SubmissionError
	assert.ErrorAs(t, err, &submissionErr)
}

func TestPollRetriesUntilResultAppears(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			json.NewEncoder(w).Encode(map[string]string{"status": "running"})
			return
		}
		writeResult(w, map[string]map[string]string{
			"name": {"valueString": "Amy Bennett"},
			"seat": {"valueString": "14C"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	fields, err := client.Poll(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Amy Bennett", fields["name"])
	assert.Equal(t, "14C", fields["seat"])
	assert.Equal(t, int32(3), calls.Load())
}

func TestPollExhaustionReturnsTimeout(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Poll(context.Background(), server.URL)
	assert.ErrorIs(t, err, entity.ErrExtractionTimeout)
	assert.Equal(t, int32(4), calls.Load())
}

func TestPollCanceledContextIsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server.URL)
	_, err := client.Poll(ctx, server.URL)
	assert.ErrorIs(t, err, entity.ErrExtractionTimeout)
}

func TestExtractIdentity(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			assert.Contains(t, r.URL.Path, "/formrecognizer/v2.1/prebuilt/idDocument/analyze")
			w.Header().Set("Operation-Location", server.URL+"/job")
			w.WriteHeader(http.StatusAccepted)
			return
		}
		writeResult(w, map[string]map[string]string{
			"FirstName":   {"valueString": "Amy"},
			"LastName":    {"valueString": "Bennett"},
			"DateOfBirth": {"valueDate": "1990-05-02"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	identity, err := client.Extract(context.Background(), []byte("jpg bytes"))
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "Amy Bennett", identity.FullName)
	assert.Equal(t, "1990-05-02", identity.DOB.Format("2006-01-02"))
}

func TestExtractIdentityNoUsableFields(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Header().Set("Operation-Location", server.URL+"/job")
			w.WriteHeader(http.StatusAccepted)
			return
		}
		// extraction completed but found nothing
		writeResult(w, map[string]map[string]string{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	identity, err := client.Extract(context.Background(), []byte("jpg bytes"))
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestExtractIdentityTimeoutPropagates(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Header().Set("Operation-Location", server.URL+"/job")
			w.WriteHeader(http.StatusAccepted)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Extract(context.Background(), []byte("jpg bytes"))
	assert.True(t, errors.Is(err, entity.ErrExtractionTimeout))
}
