package templates

import (
	"fmt"

	"checkpoint-service/internal/domain/entity"
)

const rejectionMessage = `Dear Sir/Madam,
Some of the information in your boarding pass does not match the flight manifest data, so you cannot board the plane.
Please see a customer service representative.`

const luggageWarning = `CAUTION
We have found a prohibited item in your carry-on baggage, and it is flagged for removal. Please remove it.`

const boardingPassWarning = `Dear Sir/Madam,
Some of the information on your ID card does not match the flight manifest data, so you cannot board the plane.
Please see a customer service representative.`

// AdmissionMessage renders the boarding confirmation for an admitted
// passenger
func AdmissionMessage(record *entity.ManifestRecord) string {
	return fmt.Sprintf(`Dear %s,
You are welcome to flight %s departing at %s from %s to %s.
Your seat number is %s, and it is confirmed.
Your identity is verified so please board the plane.`,
		record.Name,
		record.FlightNumber,
		record.FlightTime,
		record.Origin,
		record.Destination,
		record.Seat,
	)
}

// RejectionMessage renders the refusal shown when too few categories
// validated
func RejectionMessage() string {
	return rejectionMessage
}

// LuggageWarning renders the prohibited item notice
func LuggageWarning() string {
	return luggageWarning
}

// BoardingPassWarning renders the boarding pass mismatch notice
func BoardingPassWarning() string {
	return boardingPassWarning
}

// PassengerMessages renders all output for a finalized record: the
// admission or rejection message, plus the category warnings. The warnings
// follow their own flag regardless of the overall outcome, so an admitted
// passenger can still be told to remove an item from their luggage.
func PassengerMessages(record *entity.ManifestRecord) []string {
	var messages []string

	if record.Admitted() {
		messages = append(messages, AdmissionMessage(record))
	} else {
		messages = append(messages, RejectionMessage())
	}

	if !record.ValidLuggage {
		messages = append(messages, LuggageWarning())
	}
	if !record.ValidBoardingPass {
		messages = append(messages, BoardingPassWarning())
	}

	return messages
}
