package repository

import (
	"context"

	"checkpoint-service/internal/domain/entity"
)

// DecisionRepository records the outcome of each verification run
type DecisionRepository interface {
	Save(ctx context.Context, decision *entity.Decision) error
}
