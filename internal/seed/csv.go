package seed

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/herdmon/herdmon/internal/domain/models"
)

// Records groups the parsed fixture files for one replay run.
type Records struct {
	Cows         []models.CreateCowRequest
	Sensors      []models.CreateSensorRequest
	Measurements []models.CreateMeasurementRequest

	// Skipped counts measurement rows without a usable value.
	Skipped int
}

// ParseCows reads a cow fixture (columns: id, name, birthdate). Rows with an
// empty id are ignored.
func ParseCows(data []byte) ([]models.CreateCowRequest, error) {
	r, idx, err := openCSV(data, "id", "name", "birthdate")
	if err != nil {
		return nil, err
	}

	var cows []models.CreateCowRequest
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rec[idx["id"]] == "" {
			continue
		}
		cows = append(cows, models.CreateCowRequest{
			ID:        rec[idx["id"]],
			Name:      rec[idx["name"]],
			Birthdate: rec[idx["birthdate"]],
		})
	}
	return cows, nil
}

// ParseSensors reads a sensor fixture (columns: id, unit).
func ParseSensors(data []byte) ([]models.CreateSensorRequest, error) {
	r, idx, err := openCSV(data, "id", "unit")
	if err != nil {
		return nil, err
	}

	var sensors []models.CreateSensorRequest
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rec[idx["id"]] == "" {
			continue
		}
		sensors = append(sensors, models.CreateSensorRequest{
			ID:   rec[idx["id"]],
			Unit: rec[idx["unit"]],
		})
	}
	return sensors, nil
}

// ParseMeasurements reads a measurement fixture (columns: sensor_id, cow_id,
// timestamp, value). Rows with an empty or NaN value are counted and skipped,
// matching how sensor exports mark missing readings.
func ParseMeasurements(data []byte) ([]models.CreateMeasurementRequest, int, error) {
	r, idx, err := openCSV(data, "sensor_id", "cow_id", "timestamp", "value")
	if err != nil {
		return nil, 0, err
	}

	var measurements []models.CreateMeasurementRequest
	var skipped int
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		rawValue := strings.TrimSpace(rec[idx["value"]])
		if rawValue == "" || strings.EqualFold(rawValue, "nan") {
			skipped++
			continue
		}
		value, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("bad value %q: %w", rawValue, err)
		}

		ts, err := strconv.ParseFloat(strings.TrimSpace(rec[idx["timestamp"]]), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("bad timestamp %q: %w", rec[idx["timestamp"]], err)
		}

		measurements = append(measurements, models.CreateMeasurementRequest{
			SensorID:  rec[idx["sensor_id"]],
			CowID:     rec[idx["cow_id"]],
			Timestamp: ts,
			Value:     value,
		})
	}
	return measurements, skipped, nil
}

// openCSV prepares a reader over data and resolves the required header
// columns, case-insensitively.
func openCSV(data []byte, columns ...string) (*csv.Reader, map[string]int, error) {
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(stripBOM(data))))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, err
	}

	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range columns {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("csv missing %q column", col)
		}
	}
	return r, idx, nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
