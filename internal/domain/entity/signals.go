// internal/domain/entity/signals.go
package entity

import (
	"time"
)

// Identity holds the fields read off an identity document
type Identity struct {
	FirstName string
	LastName  string
	FullName  string // FirstName + " " + LastName
	DOB       time.Time
}

// BoardingPass holds the normalized fields extracted from a boarding pass.
// The manifest stores the flight as "{airline}-{flight_number}".
type BoardingPass struct {
	Name           string
	Airline        string
	FlightNumber   string
	Seat           string
	Origin         string
	Destination    string
	Date           string // "02.01"
	FlightBoarding string // "15:04", departure minus 30 minutes
}

// FaceMatch is the outcome of comparing the ID photo against the checkpoint
// camera frame. A nil *FaceMatch means no face was detected in one of the
// images.
type FaceMatch struct {
	FaceIDReference  string
	FaceIDComparison string
	IsIdentical      bool
	Confidence       float64
}

// Detection maps a detected-object tag to its top-N probabilities in
// model-reported rank order. The scores are not necessarily sorted.
type Detection struct {
	Probabilities map[string][]float64
}

// TopScore returns the top-ranked probability for a tag
func (d Detection) TopScore(tag string) (float64, bool) {
	scores, ok := d.Probabilities[tag]
	if !ok || len(scores) == 0 {
		return 0, false
	}
	return scores[0], true
}
