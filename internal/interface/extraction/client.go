// internal/interface/extraction/client.go
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/pkg/logger"
	"checkpoint-service/pkg/utils"
)

const (
	customModelPathFormat = "%s/formrecognizer/v2.1/custom/models/%s/analyze?includeTextDetails=true"
	identityModelPath     = "%s/formrecognizer/v2.1/prebuilt/idDocument/analyze"

	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
)

// Client talks to the asynchronous field-extraction service: submit a
// document once, then poll the returned job handle on a fixed interval.
// The service completes in near-constant time, so there is no backoff.
type Client struct {
	endpoint     string
	modelID      string
	apiKey       string
	pollAttempts int
	pollInterval time.Duration
	httpClient   *http.Client
	logger       logger.Logger
}

// NewClient creates a new extraction client. Endpoint, model ID and API key
// must all be set.
func NewClient(endpoint, modelID, apiKey string, pollAttempts int, pollInterval time.Duration, logger logger.Logger) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("extraction endpoint: %w", entity.ErrMissingConfig)
	}
	if modelID == "" {
		return nil, fmt.Errorf("extraction model id: %w", entity.ErrMissingConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("extraction api key: %w", entity.ErrMissingConfig)
	}
	if pollAttempts <= 0 {
		pollAttempts = 4
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	return &Client{
		endpoint:     endpoint,
		modelID:      modelID,
		apiKey:       apiKey,
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}, nil
}

// analyzeResponse mirrors the extraction service poll response. A missing
// analyzeResult path means the job has not completed yet.
type analyzeResponse struct {
	Status        string `json:"status"`
	AnalyzeResult *struct {
		DocumentResults []struct {
			Fields map[string]struct {
				ValueString string `json:"valueString"`
				ValueDate   string `json:"valueDate"`
			} `json:"fields"`
		} `json:"documentResults"`
	} `json:"analyzeResult"`
}

// Submit sends a boarding pass document for analysis and returns the job
// handle from the Operation-Location header
func (c *Client) Submit(ctx context.Context, doc []byte, contentType string) (string, error) {
	url := fmt.Sprintf(customModelPathFormat, c.endpoint, c.modelID)
	return c.submit(ctx, url, doc, contentType)
}

func (c *Client) submit(ctx context.Context, url string, doc []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(subscriptionKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit extraction job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Extraction submit rejected",
			"status", resp.StatusCode,
			"body", string(body))
		return "", &entity.SubmissionError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	handle := resp.Header.Get("Operation-Location")
	if handle == "" {
		c.logger.Error("Extraction submit accepted without operation location")
		return "", &entity.SubmissionError{StatusCode: resp.StatusCode, Body: "missing Operation-Location header"}
	}

	c.logger.Info("Extraction job submitted", "handle", handle)
	return handle, nil
}

// Poll waits the fixed interval, then fetches the job status, retrying until
// the result body appears or the attempt budget runs out. Exhaustion returns
// entity.ErrExtractionTimeout; the caller treats the document as
// unverifiable, it never aborts the run.
func (c *Client) Poll(ctx context.Context, handle string) (map[string]string, error) {
	for attempt := 1; attempt <= c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			// An abandoned poll counts as a timeout for the caller.
			return nil, fmt.Errorf("poll canceled: %w", entity.ErrExtractionTimeout)
		case <-time.After(c.pollInterval):
		}

		fields, ready, err := c.fetchResult(ctx, handle)
		if err != nil {
			c.logger.Error("Extraction poll request failed",
				"attempt", attempt,
				"error", err)
			continue
		}
		if ready {
			c.logger.Info("Extraction job completed", "attempts", attempt)
			return fields, nil
		}

		c.logger.Warn("Extraction job not ready",
			"attempt", attempt,
			"remaining", c.pollAttempts-attempt)
	}

	return nil, entity.ErrExtractionTimeout
}

// fetchResult performs one status fetch. ready is false while the response
// lacks the documentResults field structure.
func (c *Client) fetchResult(ctx context.Context, handle string) (map[string]string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", handle, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set(subscriptionKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch job status: %w", err)
	}
	defer resp.Body.Close()

	var result analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("failed to decode poll response: %w", err)
	}

	if result.AnalyzeResult == nil || len(result.AnalyzeResult.DocumentResults) == 0 {
		return nil, false, nil
	}

	fields := make(map[string]string)
	for name, field := range result.AnalyzeResult.DocumentResults[0].Fields {
		value := field.ValueString
		if value == "" {
			value = field.ValueDate
		}
		fields[name] = value
	}
	return fields, true, nil
}

// Extract runs an identity document through the prebuilt model using the
// same submit/poll protocol. Returns (nil, nil) when the document yields no
// usable name+dob pair.
func (c *Client) Extract(ctx context.Context, image []byte) (*entity.Identity, error) {
	url := fmt.Sprintf(identityModelPath, c.endpoint)
	handle, err := c.submit(ctx, url, image, "image/jpeg")
	if err != nil {
		return nil, err
	}

	fields, err := c.Poll(ctx, handle)
	if err != nil {
		return nil, err
	}

	identity := utils.NormalizeIdentity(fields)
	if identity == nil {
		c.logger.Warn("Identity document yielded no usable name and dob")
		return nil, nil
	}

	c.logger.Info("Identity document recognized", "name", identity.FullName)
	return identity, nil
}
