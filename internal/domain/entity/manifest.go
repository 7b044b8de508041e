// internal/domain/entity/manifest.go
package entity

import (
	"time"
)

// AdmissionThreshold is the minimum number of validity flags that must be
// set before a passenger is admitted. Three of five is intentional: one
// failed category still admits, since valid_dob and valid_name always move
// together.
const AdmissionThreshold = 3

// Flag identifies one validity flag on a manifest record
type Flag string

const (
	FlagDOB          Flag = "valid_dob"
	FlagName         Flag = "valid_name"
	FlagBoardingPass Flag = "valid_boardingpass"
	FlagPerson       Flag = "valid_person"
	FlagLuggage      Flag = "valid_luggage"
)

// ManifestRecord represents one passenger row of the flight manifest
type ManifestRecord struct {
	Name         string
	Birthdate    time.Time
	Seat         string
	FlightNumber string
	FlightDate   time.Time
	FlightTime   string // departure time, "15:04"
	Origin       string
	Destination  string

	ValidDOB          bool
	ValidName         bool
	ValidBoardingPass bool
	ValidPerson       bool
	ValidLuggage      bool
}

// SetFlag sets a validity flag. Flags are monotone within a pipeline run:
// once set they are never cleared.
func (r *ManifestRecord) SetFlag(f Flag) {
	switch f {
	case FlagDOB:
		r.ValidDOB = true
	case FlagName:
		r.ValidName = true
	case FlagBoardingPass:
		r.ValidBoardingPass = true
	case FlagPerson:
		r.ValidPerson = true
	case FlagLuggage:
		r.ValidLuggage = true
	}
}

// FlagCount returns the number of validity flags currently set
func (r *ManifestRecord) FlagCount() int {
	count := 0
	for _, set := range []bool{r.ValidDOB, r.ValidName, r.ValidBoardingPass, r.ValidPerson, r.ValidLuggage} {
		if set {
			count++
		}
	}
	return count
}

// Admitted reports whether the record carries enough validity flags to board
func (r *ManifestRecord) Admitted() bool {
	return r.FlagCount() >= AdmissionThreshold
}
