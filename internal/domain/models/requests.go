package models

import (
	"fmt"
	"time"
)

// CreateCowRequest is the payload of both cow creation endpoints. The
// path-parameter variant fills ID from the URL before validation.
type CreateCowRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
}

// Validate checks field presence and the birthdate format.
func (r CreateCowRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: cow id must not be empty", ErrValidation)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: cow name must not be empty", ErrValidation)
	}
	if _, err := time.Parse(DateLayout, r.Birthdate); err != nil {
		return fmt.Errorf("%w: birthdate must be in YYYY-MM-DD format", ErrValidation)
	}
	return nil
}

// Cow builds the domain record from a validated request.
func (r CreateCowRequest) Cow() Cow {
	return Cow{ID: r.ID, Name: r.Name, Birthdate: r.Birthdate}
}

// CreateSensorRequest is the payload of the sensor registration endpoint.
type CreateSensorRequest struct {
	ID   string `json:"id"`
	Unit string `json:"unit"`
}

// Validate checks field presence and that the unit is one of the known
// sensor units. Unknown units are rejected here so they are never stored.
func (r CreateSensorRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: sensor id must not be empty", ErrValidation)
	}
	if _, ok := NormalizeUnit(r.Unit); !ok {
		return fmt.Errorf("%w: unknown unit %q, expected L or kg", ErrValidation, r.Unit)
	}
	return nil
}

// Sensor builds the domain record with the unit canonicalized.
func (r CreateSensorRequest) Sensor() Sensor {
	unit, _ := NormalizeUnit(r.Unit)
	return Sensor{ID: r.ID, Unit: unit}
}

// CreateMeasurementRequest is the payload of the measurement ingestion
// endpoint. Timestamp is epoch seconds.
type CreateMeasurementRequest struct {
	SensorID  string  `json:"sensor_id"`
	CowID     string  `json:"cow_id"`
	Timestamp float64 `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Validate checks reference presence and that the value is non-negative.
// Existence of the referenced cow and sensor is checked by the herd service.
func (r CreateMeasurementRequest) Validate() error {
	if r.SensorID == "" {
		return fmt.Errorf("%w: sensor_id must not be empty", ErrValidation)
	}
	if r.CowID == "" {
		return fmt.Errorf("%w: cow_id must not be empty", ErrValidation)
	}
	if r.Value < 0 {
		return fmt.Errorf("%w: value must be non-negative", ErrValidation)
	}
	return nil
}

// Measurement builds the domain record from a validated request.
func (r CreateMeasurementRequest) Measurement() Measurement {
	return Measurement{
		SensorID:  r.SensorID,
		CowID:     r.CowID,
		Timestamp: r.Timestamp,
		Value:     r.Value,
	}
}
