package usecase

import (
	"context"
	"time"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/internal/domain/repository"
	"checkpoint-service/pkg/logger"
	"checkpoint-service/pkg/metrics"
	"checkpoint-service/pkg/utils"
	"checkpoint-service/templates"
)

// PassengerInput carries the four raw documents for one checkpoint run
type PassengerInput struct {
	IDImage          []byte
	BoardingPassDoc  []byte
	BoardingPassType string
	CameraFrame      []byte
	LuggageImage     []byte
}

// VerificationPipeline reconciles the four verification signals against the
// manifest and produces the admission decision. A run is synchronous; the
// only suspension point is the extraction poll wait. Independent runs may
// execute concurrently, the manifest store serializes row writes.
type VerificationPipeline struct {
	identity     repository.IdentityExtractor
	boardingPass repository.BoardingPassExtractor
	faces        repository.FaceComparator
	detector     repository.ObjectDetector
	manifest     repository.ManifestRepository
	decisions    repository.DecisionRepository
	validator    *Validator
	logger       logger.Logger
	metrics      *metrics.Metrics
}

// NewVerificationPipeline creates a new verification pipeline
func NewVerificationPipeline(
	identity repository.IdentityExtractor,
	boardingPass repository.BoardingPassExtractor,
	faces repository.FaceComparator,
	detector repository.ObjectDetector,
	manifest repository.ManifestRepository,
	decisions repository.DecisionRepository,
	validator *Validator,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *VerificationPipeline {
	return &VerificationPipeline{
		identity:     identity,
		boardingPass: boardingPass,
		faces:        faces,
		detector:     detector,
		manifest:     manifest,
		decisions:    decisions,
		validator:    validator,
		logger:       logger,
		metrics:      metrics,
	}
}

// Run executes one passenger verification from raw documents to decision.
// A failed or absent signal marks its own category invalid; it never stops
// the remaining categories from being evaluated.
func (p *VerificationPipeline) Run(ctx context.Context, input PassengerInput) (*entity.Decision, error) {
	start := time.Now()
	p.metrics.PassengersProcessed.Inc()
	defer func() {
		p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	identity := p.collectIdentity(ctx, input)
	pass := p.collectBoardingPass(ctx, input)
	match := p.collectFaceMatch(ctx, input)
	detection := p.collectDetection(ctx, input)

	idx := p.resolveRow(identity, pass)

	validDOB := p.validator.ValidateNameDOB(identity)
	validPass := p.validator.ValidateBoardingPass(pass)
	validPerson := p.validator.ValidateFace(match)
	validLuggage := p.validator.HasNoLighter(detection)

	if !validDOB {
		p.metrics.ValidationFailures.WithLabelValues("name_dob").Inc()
	}
	if !validPass {
		p.metrics.ValidationFailures.WithLabelValues("boardingpass").Inc()
	}
	if !validPerson {
		p.metrics.ValidationFailures.WithLabelValues("person").Inc()
	}
	if !validLuggage {
		p.metrics.ValidationFailures.WithLabelValues("luggage").Inc()
	}

	record := entity.ManifestRecord{}
	if identity != nil {
		record.Name = identity.FullName
	}

	if idx >= 0 {
		if validDOB {
			p.setFlags(ctx, idx, entity.FlagDOB, entity.FlagName)
		}
		if validPass {
			p.setFlags(ctx, idx, entity.FlagBoardingPass)
		}
		if validPerson {
			p.setFlags(ctx, idx, entity.FlagPerson)
		}
		if validLuggage {
			p.setFlags(ctx, idx, entity.FlagLuggage)
		}

		var err error
		record, err = p.manifest.Record(idx)
		if err != nil {
			return nil, err
		}

		if err := p.manifest.PersistRow(ctx, idx); err != nil {
			p.logger.Error("Failed to persist manifest row", "index", idx, "error", err)
			p.metrics.ErrorsCount.WithLabelValues("persist_row").Inc()
		} else {
			p.logger.Info("Saved validated manifest row", "index", idx, "name", record.Name)
		}
	} else {
		p.logger.Warn("No manifest row resolved for passenger, rejecting", "name", record.Name)
	}

	decision := &entity.Decision{
		PassengerName: record.Name,
		RowIndex:      idx,
		ValidDOB:      record.ValidDOB,
		ValidName:     record.ValidName,
		ValidBoarding: record.ValidBoardingPass,
		ValidPerson:   record.ValidPerson,
		ValidLuggage:  record.ValidLuggage,
		FlagCount:     record.FlagCount(),
		Admitted:      record.Admitted(),
		Messages:      templates.PassengerMessages(&record),
		CreatedAt:     time.Now(),
	}

	if decision.Admitted {
		p.metrics.PassengersAdmitted.Inc()
	}

	if err := p.decisions.Save(ctx, decision); err != nil {
		p.logger.Error("Failed to save decision", "name", decision.PassengerName, "error", err)
		p.metrics.ErrorsCount.WithLabelValues("save_decision").Inc()
	}

	p.logger.Info("Verification run completed",
		"name", decision.PassengerName,
		"flagCount", decision.FlagCount,
		"admitted", decision.Admitted)

	return decision, nil
}

func (p *VerificationPipeline) collectIdentity(ctx context.Context, input PassengerInput) *entity.Identity {
	identity, err := p.identity.Extract(ctx, input.IDImage)
	if err != nil {
		p.logger.Error("Identity extraction failed", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("identity_extract").Inc()
		return nil
	}
	return identity
}

// collectBoardingPass runs the submit/poll job and normalizes the raw
// fields. Any failure, including an exhausted poll budget, leaves the
// boarding pass unverifiable for this run.
func (p *VerificationPipeline) collectBoardingPass(ctx context.Context, input PassengerInput) *entity.BoardingPass {
	handle, err := p.boardingPass.Submit(ctx, input.BoardingPassDoc, input.BoardingPassType)
	if err != nil {
		p.logger.Error("Boarding pass submission failed", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("boardingpass_submit").Inc()
		return nil
	}

	fields, err := p.boardingPass.Poll(ctx, handle)
	if err != nil {
		p.logger.Error("Boarding pass extraction failed, treating as unverifiable", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("boardingpass_poll").Inc()
		return nil
	}

	return utils.NormalizeBoardingPass(fields)
}

func (p *VerificationPipeline) collectFaceMatch(ctx context.Context, input PassengerInput) *entity.FaceMatch {
	match, err := p.faces.Compare(ctx, input.IDImage, input.CameraFrame)
	if err != nil {
		p.logger.Error("Face comparison failed", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("face_compare").Inc()
		return nil
	}
	return match
}

func (p *VerificationPipeline) collectDetection(ctx context.Context, input PassengerInput) entity.Detection {
	detection, err := p.detector.Detect(ctx, input.LuggageImage)
	if err != nil {
		p.logger.Error("Object detection failed", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("object_detect").Inc()
		return entity.Detection{}
	}
	return detection
}

// resolveRow picks the manifest row the run writes to: the identity name
// when it resolves uniquely, otherwise the boarding pass name. Returns -1
// when neither does; the run then produces a rejection without persisting.
func (p *VerificationPipeline) resolveRow(identity *entity.Identity, pass *entity.BoardingPass) int {
	if identity != nil {
		if indices := p.manifest.FindByName(identity.FullName); len(indices) == 1 {
			return indices[0]
		}
	}
	if pass != nil {
		if indices := p.manifest.FindByName(pass.Name); len(indices) == 1 {
			return indices[0]
		}
	}
	return -1
}

func (p *VerificationPipeline) setFlags(ctx context.Context, idx int, flags ...entity.Flag) {
	if err := p.manifest.SetFlags(ctx, idx, flags...); err != nil {
		p.logger.Error("Failed to set manifest flags", "index", idx, "error", err)
	}
}
