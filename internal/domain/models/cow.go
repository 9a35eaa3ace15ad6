package models

// DateLayout is the calendar date format used across the API and reports.
const DateLayout = "2006-01-02"

// Cow represents a single animal in the herd. Cows are immutable after
// creation.
type Cow struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Birthdate string `json:"birthdate" bson:"birthdate"`
}
