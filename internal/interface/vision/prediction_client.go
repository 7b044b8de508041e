// internal/interface/vision/prediction_client.go
package vision

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
)

const defaultTopN = 3

// PredictionClient runs images through a published object detection
// iteration
type PredictionClient struct {
	endpoint      string
	predictionKey string
	projectID     string
	iteration     string
	topN          int
	httpClient    *http.Client
	logger        logger.Logger
}

// NewPredictionClient creates a new object detection client
func NewPredictionClient(endpoint, predictionKey, projectID, iteration string, logger logger.Logger) (*PredictionClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("vision endpoint: %w", entity.ErrMissingConfig)
	}
	if predictionKey == "" {
		return nil, fmt.Errorf("vision prediction key: %w", entity.ErrMissingConfig)
	}
	if projectID == "" {
		return nil, fmt.Errorf("vision project id: %w", entity.ErrMissingConfig)
	}
	if iteration == "" {
		return nil, fmt.Errorf("vision iteration: %w", entity.ErrMissingConfig)
	}

	return &PredictionClient{
		endpoint:      endpoint,
		predictionKey: predictionKey,
		projectID:     projectID,
		iteration:     iteration,
		topN:          defaultTopN,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}, nil
}

type predictionResponse struct {
	Predictions []struct {
		Probability float64 `json:"probability"`
		TagName     string  `json:"tagName"`
	} `json:"predictions"`
}

// Detect runs detection over an image and groups the top-N probabilities per
// tag, preserving the model-reported rank order
func (c *PredictionClient) Detect(ctx context.Context, image []byte) (entity.Detection, error) {
	url := fmt.Sprintf("%s/customvision/v3.0/Prediction/%s/detect/iterations/%s/image",
		c.endpoint, c.projectID, c.iteration)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(image))
	if err != nil {
		return entity.Detection{}, fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Prediction-Key", c.predictionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Detection{}, fmt.Errorf("failed to run detection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return entity.Detection{}, fmt.Errorf("prediction returned status %d: %s", resp.StatusCode, string(body))
	}

	var result predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return entity.Detection{}, fmt.Errorf("failed to decode prediction response: %w", err)
	}

	probabilities := make(map[string][]float64)
	for _, p := range result.Predictions {
		if len(probabilities[p.TagName]) < c.topN {
			probabilities[p.TagName] = append(probabilities[p.TagName], p.Probability)
		}
	}

	c.logger.Info("Detection completed", "tags", len(probabilities))
	return entity.Detection{Probabilities: probabilities}, nil
}
