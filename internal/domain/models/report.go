package models

import "time"

// CowSummary aggregates one cow's milk and weight series. It backs both the
// cow detail endpoint and the per-cow entries of the daily report. Aggregate
// fields are nil when the cow has no qualifying measurements.
type CowSummary struct {
	ID                string            `json:"id" bson:"id"`
	Name              string            `json:"name" bson:"name"`
	Birthdate         string            `json:"birthdate" bson:"birthdate"`
	AvgMilkProduction *float64          `json:"avg_milk_production" bson:"avg_milk_production"`
	AvgWeight         *float64          `json:"avg_weight" bson:"avg_weight"`
	LatestMilk        *MeasurementPoint `json:"latest_milk" bson:"latest_milk"`
	LatestWeight      *MeasurementPoint `json:"latest_weight" bson:"latest_weight"`
}

// HealthFlag marks a cow as potentially ill. Reason carries the signed
// percentage change that triggered the flag.
type HealthFlag struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Reason string `json:"reason" bson:"reason"`
}

// HerdSummary holds herd-wide aggregates over the per-cow averages. Mean
// fields are nil when no cow contributes data for the series.
type HerdSummary struct {
	CowsMonitored     int      `json:"cows_monitored" bson:"cows_monitored"`
	FlaggedCows       int      `json:"flagged_cows" bson:"flagged_cows"`
	AvgMilkProduction *float64 `json:"avg_milk_production" bson:"avg_milk_production"`
	AvgWeight         *float64 `json:"avg_weight" bson:"avg_weight"`
}

// Report is the daily herd health report for a reference date. It is
// recomputed on every request and never read back from storage on the
// request path.
type Report struct {
	Date               string       `json:"date" bson:"date"`
	Cows               []CowSummary `json:"cows" bson:"cows"`
	PotentiallyIllCows []HealthFlag `json:"potentially_ill_cows" bson:"potentially_ill_cows"`
	Summary            HerdSummary  `json:"summary" bson:"summary"`
}

// ArchivedReport wraps a generated report snapshot for MongoDB archival by
// the scheduled job.
type ArchivedReport struct {
	SnapshotID  string    `bson:"snapshot_id" json:"snapshot_id"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
	Report      Report    `bson:"report" json:"report"`
}
