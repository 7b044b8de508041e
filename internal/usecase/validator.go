package usecase

import (
	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/internal/domain/repository"
	"checkpoint-service/pkg/logger"
	"checkpoint-service/pkg/utils"
)

// lighterTag is the detection label whose top score drives the luggage check
const lighterTag = "lighter"

// Validator runs the four category validations against the manifest. Each
// validator returns a plain bool; absent input is a failed validation, never
// a panic, so one missing signal cannot stop the others from being
// evaluated.
type Validator struct {
	manifest          repository.ManifestRepository
	faceConfidenceMin float64
	lighterThreshold  float64
	logger            logger.Logger
}

// NewValidator creates a new validator with explicit thresholds
func NewValidator(manifest repository.ManifestRepository, faceConfidenceMin, lighterThreshold float64, logger logger.Logger) *Validator {
	return &Validator{
		manifest:          manifest,
		faceConfidenceMin: faceConfidenceMin,
		lighterThreshold:  lighterThreshold,
		logger:            logger,
	}
}

// resolveRow requires exactly one manifest row matching name. Zero matches
// and multiple matches are both validation failures, fail-closed.
func (v *Validator) resolveRow(name string) (int, bool) {
	indices := v.manifest.FindByName(name)
	switch len(indices) {
	case 1:
		return indices[0], true
	case 0:
		v.logger.Warn("Passenger not found in flight manifest",
			"name", name,
			"error", entity.ErrPassengerNotFound)
		return 0, false
	default:
		v.logger.Warn("Multiple manifest rows match passenger",
			"name", name,
			"matches", len(indices),
			"error", entity.ErrAmbiguousPassenger)
		return 0, false
	}
}

// ValidateNameDOB checks the extracted identity against the manifest:
// exactly one row must match the full name, and the extracted date of birth
// must equal that row's birthdate. On success valid_dob and valid_name are
// granted together; they never diverge.
func (v *Validator) ValidateNameDOB(identity *entity.Identity) bool {
	if identity == nil {
		v.logger.Warn("No identity extracted from document", "error", entity.ErrMissingSignal)
		return false
	}

	idx, ok := v.resolveRow(identity.FullName)
	if !ok {
		return false
	}

	record, err := v.manifest.Record(idx)
	if err != nil {
		v.logger.Error("Failed to read manifest row", "index", idx, "error", err)
		return false
	}

	if !record.Birthdate.Equal(identity.DOB) {
		v.logger.Warn("Date of birth does not match manifest",
			"name", identity.FullName,
			"extracted", identity.DOB,
			"manifest", record.Birthdate)
		return false
	}

	v.logger.Info("Validated name and date of birth", "name", identity.FullName)
	return true
}

// ValidateBoardingPass checks all seven boarding pass fields against the
// manifest row matching the pass's name. All must hold; there is no partial
// credit.
func (v *Validator) ValidateBoardingPass(pass *entity.BoardingPass) bool {
	if pass == nil {
		v.logger.Warn("No boarding pass fields to validate", "error", entity.ErrMissingSignal)
		return false
	}

	idx, ok := v.resolveRow(pass.Name)
	if !ok {
		return false
	}

	record, err := v.manifest.Record(idx)
	if err != nil {
		v.logger.Error("Failed to read manifest row", "index", idx, "error", err)
		return false
	}

	expectedBoarding, err := utils.BoardingTimeFromDeparture(record.FlightTime)
	if err != nil {
		v.logger.Error("Failed to compute boarding time", "flightTime", record.FlightTime, "error", err)
		return false
	}

	checks := []bool{
		record.Name == pass.Name,
		record.Seat == pass.Seat,
		record.FlightNumber == pass.Airline+"-"+pass.FlightNumber,
		record.Origin == pass.Origin,
		record.Destination == pass.Destination,
		utils.FormatManifestDate(record.FlightDate) == pass.Date,
		expectedBoarding == pass.FlightBoarding,
	}

	for _, valid := range checks {
		if !valid {
			v.logger.Warn("One or more boarding pass fields are invalid",
				"name", pass.Name,
				"manifest", record,
				"boardingPass", pass)
			return false
		}
	}

	v.logger.Info("Boarding pass is valid", "name", pass.Name)
	return true
}

// ValidateFace requires an identical verdict with confidence strictly above
// the minimum. A nil match (no face detected) fails.
func (v *Validator) ValidateFace(match *entity.FaceMatch) bool {
	if match == nil {
		v.logger.Warn("No face match result", "error", entity.ErrMissingSignal)
		return false
	}

	if match.IsIdentical && match.Confidence > v.faceConfidenceMin {
		v.logger.Info("Person validated, camera frame matches ID photo",
			"confidence", match.Confidence)
		return true
	}

	v.logger.Warn("Face validation failed",
		"isIdentical", match.IsIdentical,
		"confidence", match.Confidence)
	return false
}

// HasNoLighter inspects the top-ranked lighter score. A score strictly above
// the threshold means a prohibited item is present; a missing score leaves
// the luggage unverified, which also fails.
func (v *Validator) HasNoLighter(detection entity.Detection) bool {
	probability, ok := detection.TopScore(lighterTag)
	if !ok {
		v.logger.Warn("No lighter score in detection result", "error", entity.ErrMissingSignal)
		return false
	}

	if probability > v.lighterThreshold {
		v.logger.Info("Lighter detected", "probability", probability)
		return false
	}

	v.logger.Info("No lighter detected", "probability", probability)
	return true
}
