package usecase

import (
	"testing"
	"time"

	"checkpoint-service/internal/domain/entity"
	repo "checkpoint-service/internal/interface/repository"
	"checkpoint-service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func amyRecord() entity.ManifestRecord {
	return entity.ManifestRecord{
		Name:         "Amy Bennett",
		Birthdate:    time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC),
		Seat:         "14C",
		FlightNumber: "LH-123",
		FlightDate:   time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		FlightTime:   "09:00",
		Origin:       "SFO",
		Destination:  "ORD",
	}
}

func amyIdentity() *entity.Identity {
	return &entity.Identity{
		FirstName: "Amy",
		LastName:  "Bennett",
		FullName:  "Amy Bennett",
		DOB:       time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC),
	}
}

func amyBoardingPass() *entity.BoardingPass {
	return &entity.BoardingPass{
		Name:           "Amy Bennett",
		Airline:        "LH",
		FlightNumber:   "123",
		Seat:           "14C",
		Origin:         "SFO",
		Destination:    "ORD",
		Date:           "01.09",
		FlightBoarding: "08:30",
	}
}

func newValidator(records ...entity.ManifestRecord) *Validator {
	manifest := repo.NewMemoryManifestRepository(records)
	return NewValidator(manifest, 0.6, 0.2, logger.NewNop())
}

func TestValidateNameDOB(t *testing.T) {
	wrongDOB := amyIdentity()
	wrongDOB.DOB = time.Date(1991, 5, 2, 0, 0, 0, 0, time.UTC)

	unknown := amyIdentity()
	unknown.FullName = "Bob Bennett"

	tests := []struct {
		name     string
		records  []entity.ManifestRecord
		identity *entity.Identity
		want     bool
	}{
		{"matching name and dob", []entity.ManifestRecord{amyRecord()}, amyIdentity(), true},
		{"dob mismatch", []entity.ManifestRecord{amyRecord()}, wrongDOB, false},
		{"name not in manifest", []entity.ManifestRecord{amyRecord()}, unknown, false},
		{"duplicate manifest rows", []entity.ManifestRecord{amyRecord(), amyRecord()}, amyIdentity(), false},
		{"empty manifest", nil, amyIdentity(), false},
		{"absent identity", []entity.ManifestRecord{amyRecord()}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(tt.records...)
			assert.Equal(t, tt.want, v.ValidateNameDOB(tt.identity))
		})
	}
}

func TestValidateNameDOBIsCaseSensitive(t *testing.T) {
	v := newValidator(amyRecord())
	identity := amyIdentity()
	identity.FullName = "amy bennett"
	assert.False(t, v.ValidateNameDOB(identity))
}

func TestValidateBoardingPassAllFieldsMatch(t *testing.T) {
	v := newValidator(amyRecord())
	assert.True(t, v.ValidateBoardingPass(amyBoardingPass()))
}

// Flipping any single field must flip the whole validation; the seven
// sub-checks are a strict AND with no partial credit.
func TestValidateBoardingPassSingleFieldMismatchFails(t *testing.T) {
	mutations := map[string]func(*entity.BoardingPass){
		"name":          func(p *entity.BoardingPass) { p.Name = "Bob Bennett" },
		"seat":          func(p *entity.BoardingPass) { p.Seat = "14D" },
		"airline":       func(p *entity.BoardingPass) { p.Airline = "LX" },
		"flight number": func(p *entity.BoardingPass) { p.FlightNumber = "124" },
		"origin":        func(p *entity.BoardingPass) { p.Origin = "LAX" },
		"destination":   func(p *entity.BoardingPass) { p.Destination = "JFK" },
		"date":          func(p *entity.BoardingPass) { p.Date = "02.09" },
		"boarding time": func(p *entity.BoardingPass) { p.FlightBoarding = "08:45" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			v := newValidator(amyRecord())
			pass := amyBoardingPass()
			mutate(pass)
			assert.False(t, v.ValidateBoardingPass(pass))
		})
	}
}

func TestValidateBoardingPassAbsentPass(t *testing.T) {
	v := newValidator(amyRecord())
	assert.False(t, v.ValidateBoardingPass(nil))
}

func TestValidateBoardingPassAmbiguousName(t *testing.T) {
	v := newValidator(amyRecord(), amyRecord())
	assert.False(t, v.ValidateBoardingPass(amyBoardingPass()))
}

func TestValidateFace(t *testing.T) {
	tests := []struct {
		name  string
		match *entity.FaceMatch
		want  bool
	}{
		{"identical above threshold", &entity.FaceMatch{IsIdentical: true, Confidence: 0.92}, true},
		{"confidence exactly at threshold", &entity.FaceMatch{IsIdentical: true, Confidence: 0.6}, false},
		{"confidence just above threshold", &entity.FaceMatch{IsIdentical: true, Confidence: 0.6001}, true},
		{"not identical despite confidence", &entity.FaceMatch{IsIdentical: false, Confidence: 0.99}, false},
		{"no face detected", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(amyRecord())
			assert.Equal(t, tt.want, v.ValidateFace(tt.match))
		})
	}
}

func TestHasNoLighter(t *testing.T) {
	detection := func(scores ...float64) entity.Detection {
		return entity.Detection{Probabilities: map[string][]float64{"lighter": scores}}
	}

	tests := []struct {
		name      string
		detection entity.Detection
		want      bool
	}{
		{"low score", detection(0.05), true},
		{"score exactly at threshold", detection(0.2), true},
		{"score just above threshold", detection(0.2001), false},
		{"high score", detection(0.95, 0.4, 0.1), false},
		{"only top score counts", detection(0.05, 0.9), true},
		{"no lighter entry", entity.Detection{Probabilities: map[string][]float64{}}, false},
		{"empty detection", entity.Detection{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(amyRecord())
			assert.Equal(t, tt.want, v.HasNoLighter(tt.detection))
		})
	}
}
