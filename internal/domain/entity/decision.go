// internal/domain/entity/decision.go
package entity

import (
	"time"
)

// Decision is the persisted outcome of one verification pipeline run
type Decision struct {
	ID            string    `bson:"_id,omitempty"`
	PassengerName string    `bson:"passengerName"`
	RowIndex      int       `bson:"rowIndex"` // -1 when no manifest row resolved
	ValidDOB      bool      `bson:"validDob"`
	ValidName     bool      `bson:"validName"`
	ValidBoarding bool      `bson:"validBoardingpass"`
	ValidPerson   bool      `bson:"validPerson"`
	ValidLuggage  bool      `bson:"validLuggage"`
	FlagCount     int       `bson:"flagCount"`
	Admitted      bool      `bson:"admitted"`
	Messages      []string  `bson:"messages"`
	CreatedAt     time.Time `bson:"createdAt"`
}
