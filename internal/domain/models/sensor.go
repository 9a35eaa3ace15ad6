package models

import "strings"

// Unit classifies what a sensor measures.
type Unit string

const (
	// UnitLiters marks milk-volume sensors.
	UnitLiters Unit = "L"
	// UnitKilograms marks body-weight sensors.
	UnitKilograms Unit = "kg"
)

// Sensor represents a registered measurement device. Sensors are immutable
// after creation and their unit decides the kind of every reading they send.
type Sensor struct {
	ID   string `json:"id" bson:"id"`
	Unit Unit   `json:"unit" bson:"unit"`
}

// NormalizeUnit maps free-form unit spellings ("l", "KG", ...) to their
// canonical form. The second return value reports whether the unit is known.
func NormalizeUnit(raw string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "l":
		return UnitLiters, true
	case "kg":
		return UnitKilograms, true
	default:
		return "", false
	}
}

// Kind returns the measurement kind readings from this sensor belong to.
func (s Sensor) Kind() (MeasurementKind, bool) {
	return KindForUnit(s.Unit)
}
