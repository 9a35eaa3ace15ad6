package models

// MeasurementKind distinguishes the two series tracked per cow.
type MeasurementKind string

const (
	KindMilk   MeasurementKind = "milk"
	KindWeight MeasurementKind = "weight"
)

// KindForUnit resolves a sensor unit to the kind of measurement it produces.
func KindForUnit(u Unit) (MeasurementKind, bool) {
	switch u {
	case UnitLiters:
		return KindMilk, true
	case UnitKilograms:
		return KindWeight, true
	default:
		return "", false
	}
}

// UnitForKind is the inverse of KindForUnit.
func UnitForKind(k MeasurementKind) (Unit, bool) {
	switch k {
	case KindMilk:
		return UnitLiters, true
	case KindWeight:
		return UnitKilograms, true
	default:
		return "", false
	}
}

// TimeRange restricts aggregate queries to a window of epoch seconds.
// Start is inclusive, End exclusive; a zero bound means unbounded on that
// side, so the zero TimeRange covers a cow's full history.
type TimeRange struct {
	Start float64
	End   float64
}

// Measurement is one sensor reading for one cow. Rows are append-only: they
// are never updated or deleted once stored.
type Measurement struct {
	ID        int64   `json:"id"`
	SensorID  string  `json:"sensor_id"`
	CowID     string  `json:"cow_id"`
	Timestamp float64 `json:"timestamp"`
	Value     float64 `json:"value"`
}

// MeasurementPoint is the wire form of a single reading inside summaries.
type MeasurementPoint struct {
	Value     float64 `json:"value" bson:"value"`
	Timestamp float64 `json:"timestamp" bson:"timestamp"`
	SensorID  string  `json:"sensor_id" bson:"sensor_id"`
}

// RecentMeasurements groups a cow's newest readings per kind, newest first.
type RecentMeasurements struct {
	CowID  string        `json:"id"`
	Milk   []Measurement `json:"milk"`
	Weight []Measurement `json:"weight"`
}
