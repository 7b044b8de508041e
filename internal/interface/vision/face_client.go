// internal/interface/vision/face_client.go
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

// FaceClient compares the ID photo against the checkpoint camera frame via
// the face service's detect and verify operations
type FaceClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewFaceClient creates a new face comparison client
func NewFaceClient(endpoint, apiKey string, logger logger.Logger) (*FaceClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("face endpoint: %w", entity.ErrMissingConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("face api key: %w", entity.ErrMissingConfig)
	}

	return &FaceClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

type detectedFace struct {
	FaceID string `json:"faceId"`
}

type verifyResult struct {
	IsIdentical bool    `json:"isIdentical"`
	Confidence  float64 `json:"confidence"`
}

// Compare detects a face in each image and verifies them against each other.
// Returns (nil, nil) when either image contains no face.
func (c *FaceClient) Compare(ctx context.Context, reference, candidate []byte) (*entity.FaceMatch, error) {
	refFaces, err := c.detect(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to detect reference face: %w", err)
	}

	candFaces, err := c.detect(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to detect candidate face: %w", err)
	}

	if len(refFaces) == 0 || len(candFaces) == 0 {
		c.logger.Warn("No face detected in reference or candidate image",
			"referenceFaces", len(refFaces),
			"candidateFaces", len(candFaces))
		return nil, nil
	}

	verify, err := c.verify(ctx, refFaces[0].FaceID, candFaces[0].FaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify faces: %w", err)
	}

	c.logger.Info("Face comparison completed",
		"reference", refFaces[0].FaceID,
		"candidate", candFaces[0].FaceID,
		"isIdentical", verify.IsIdentical,
		"confidence", verify.Confidence)

	return &entity.FaceMatch{
		FaceIDReference:  refFaces[0].FaceID,
		FaceIDComparison: candFaces[0].FaceID,
		IsIdentical:      verify.IsIdentical,
		Confidence:       verify.Confidence,
	}, nil
}

func (c *FaceClient) detect(ctx context.Context, image []byte) ([]detectedFace, error) {
	url := fmt.Sprintf("%s/face/v1.0/detect?detectionModel=detection_03&returnFaceId=true", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to create detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("face detect returned status %d: %s", resp.StatusCode, string(body))
	}

	var faces []detectedFace
	if err := json.NewDecoder(resp.Body).Decode(&faces); err != nil {
		return nil, fmt.Errorf("failed to decode detect response: %w", err)
	}
	return faces, nil
}

func (c *FaceClient) verify(ctx context.Context, faceID1, faceID2 string) (*verifyResult, error) {
	payload, err := json.Marshal(map[string]string{
		"faceId1": faceID1,
		"faceId2": faceID2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	url := fmt.Sprintf("%s/face/v1.0/verify", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("face verify returned status %d: %s", resp.StatusCode, string(body))
	}

	var result verifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	return &result, nil
}
