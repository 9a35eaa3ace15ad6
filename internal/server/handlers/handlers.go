package handlers

// Set bundles the route handlers the router mounts.
type Set struct {
	Cows         *CowHandler
	Sensors      *SensorHandler
	Measurements *MeasurementHandler
	Reports      *ReportHandler
	Health       *HealthHandler
}
