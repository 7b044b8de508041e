package utils

import (
	"fmt"
	"time"

	"checkpoint-service/internal/domain/entity"
)

// NormalizeBoardingPass maps the raw extracted field map into the canonical
// boarding pass shape. Pure, no I/O.
func NormalizeBoardingPass(fields map[string]string) *entity.BoardingPass {
	if fields == nil {
		return nil
	}

	return &entity.BoardingPass{
		Name:           fields[FieldName],
		Airline:        fields[FieldAirline],
		FlightNumber:   fields[FieldFlightNumber],
		Seat:           fields[FieldSeat],
		Origin:         fields[FieldOrigin],
		Destination:    fields[FieldDestination],
		Date:           fields[FieldDate],
		FlightBoarding: fields[FieldFlightBoarding],
	}
}

// NormalizeIdentity maps the raw identity document fields into an Identity.
// Returns nil when extraction found no usable name+dob pair; absence is
// policy, not an error.
func NormalizeIdentity(fields map[string]string) *entity.Identity {
	if fields == nil {
		return nil
	}

	firstName := fields[FieldFirstName]
	lastName := fields[FieldLastName]
	if firstName == "" || lastName == "" {
		return nil
	}

	dob, err := time.Parse(DOB_LAYOUT, fields[FieldDateOfBirth])
	if err != nil {
		return nil
	}

	return &entity.Identity{
		FirstName: firstName,
		LastName:  lastName,
		FullName:  firstName + " " + lastName,
		DOB:       dob,
	}
}

// FormatManifestDate renders a manifest flight date the way boarding passes
// print it
func FormatManifestDate(t time.Time) string {
	return t.Format(MANIFEST_DATE_LAYOUT)
}

// BoardingTimeFromDeparture computes the expected boarding time, thirty
// minutes before departure
func BoardingTimeFromDeparture(flightTime string) (string, error) {
	departure, err := time.Parse(CLOCK_LAYOUT, flightTime)
	if err != nil {
		return "", fmt.Errorf("failed to parse flight time %q: %w", flightTime, err)
	}
	return departure.Add(-30 * time.Minute).Format(CLOCK_LAYOUT), nil
}
