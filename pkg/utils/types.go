package utils

// Time layouts used for manifest comparisons. Validation compares rendered
// strings, never re-parses locale-sensitive values.
const (
	MANIFEST_DATE_LAYOUT = "02.01"      // boarding pass flight date
	CLOCK_LAYOUT         = "15:04"      // departure and boarding times
	DOB_LAYOUT           = "2006-01-02" // date of birth on extracted documents
	US_DATE_LAYOUT       = "01/02/2006" // date of birth in manifest CSV files
)

// Raw field names produced by the boarding pass extraction model
const (
	FieldName           = "name"
	FieldAirline        = "airline"
	FieldFlightNumber   = "flight_number"
	FieldSeat           = "seat"
	FieldOrigin         = "origin"
	FieldDestination    = "destination"
	FieldDate           = "date"
	FieldFlightBoarding = "flight_boarding"
)

// Raw field names produced by the prebuilt identity document model
const (
	FieldFirstName   = "FirstName"
	FieldLastName    = "LastName"
	FieldDateOfBirth = "DateOfBirth"
)
