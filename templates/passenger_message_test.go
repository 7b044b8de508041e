package templates

import (
	"testing"

	"checkpoint-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(flags ...entity.Flag) *entity.ManifestRecord {
	r := &entity.ManifestRecord{
		Name:         "Amy Bennett",
		Seat:         "14C",
		FlightNumber: "LH-123",
		FlightTime:   "09:00",
		Origin:       "SFO",
		Destination:  "ORD",
	}
	for _, f := range flags {
		r.SetFlag(f)
	}
	return r
}

func TestAdmissionRequiresThreeFlags(t *testing.T) {
	tests := []struct {
		name     string
		flags    []entity.Flag
		admitted bool
	}{
		{"all five", []entity.Flag{entity.FlagDOB, entity.FlagName, entity.FlagBoardingPass, entity.FlagPerson, entity.FlagLuggage}, true},
		{"exactly three", []entity.Flag{entity.FlagDOB, entity.FlagName, entity.FlagPerson}, true},
		{"a different three", []entity.Flag{entity.FlagBoardingPass, entity.FlagPerson, entity.FlagLuggage}, true},
		{"only two", []entity.Flag{entity.FlagDOB, entity.FlagName}, false},
		{"none", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := PassengerMessages(record(tt.flags...))
			require.NotEmpty(t, messages)
			if tt.admitted {
				assert.Contains(t, messages[0], "welcome to flight LH-123")
			} else {
				assert.Contains(t, messages[0], "cannot board the plane")
			}
		})
	}
}

// Warnings follow their own flag, independent of the admission outcome: an
// admitted passenger with a failed luggage check still gets the caution.
func TestWarningsIndependentOfAdmission(t *testing.T) {
	r := record(entity.FlagDOB, entity.FlagName, entity.FlagPerson)
	messages := PassengerMessages(r)

	require.Len(t, messages, 3)
	assert.Contains(t, messages[0], "welcome to flight")
	assert.Contains(t, messages[1], "prohibited item")
	assert.Contains(t, messages[2], "ID card does not match")
}

func TestNoWarningsWhenAllValid(t *testing.T) {
	r := record(entity.FlagDOB, entity.FlagName, entity.FlagBoardingPass, entity.FlagPerson, entity.FlagLuggage)
	messages := PassengerMessages(r)
	require.Len(t, messages, 1)
}

func TestAdmittedWithSingleWarning(t *testing.T) {
	r := record(entity.FlagDOB, entity.FlagName)
	r.SetFlag(entity.FlagLuggage)
	// dob, name, luggage: admitted, only the boarding pass warning shows
	messages := PassengerMessages(r)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "welcome to flight")
	assert.Contains(t, messages[1], "ID card does not match")
}

func TestAdmissionMessageFields(t *testing.T) {
	msg := AdmissionMessage(record())
	assert.Contains(t, msg, "Dear Amy Bennett")
	assert.Contains(t, msg, "flight LH-123 departing at 09:00 from SFO to ORD")
	assert.Contains(t, msg, "seat number is 14C")
}
