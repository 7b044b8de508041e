package repository

import (
	"context"

	"checkpoint-service/internal/domain/entity"
)

// IdentityExtractor reads name and date of birth off an identity document.
// A (nil, nil) return means extraction completed but found no usable
// name+dob pair.
type IdentityExtractor interface {
	Extract(ctx context.Context, image []byte) (*entity.Identity, error)
}

// BoardingPassExtractor is the client side of the asynchronous
// field-extraction job protocol: submit once, then poll the returned handle.
type BoardingPassExtractor interface {
	// Submit sends the document for analysis and returns the job handle
	Submit(ctx context.Context, doc []byte, contentType string) (string, error)

	// Poll waits for the job to complete and returns the raw extracted
	// field map. Returns entity.ErrExtractionTimeout when the retry
	// budget is exhausted.
	Poll(ctx context.Context, handle string) (map[string]string, error)
}

// FaceComparator compares a reference photo against a candidate frame.
// A (nil, nil) return means no face was detected in one of the images.
type FaceComparator interface {
	Compare(ctx context.Context, reference, candidate []byte) (*entity.FaceMatch, error)
}

// ObjectDetector runs prohibited-item detection over a luggage image
type ObjectDetector interface {
	Detect(ctx context.Context, image []byte) (entity.Detection, error)
}
