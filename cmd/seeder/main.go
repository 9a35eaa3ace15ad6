package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/seed"
	"github.com/herdmon/herdmon/pkg/logger"
)

// The seeder replays CSV fixture files against a running server through its
// public API, so seeded data passes the same validation as live traffic.
func main() {
	var (
		baseURL          = flag.String("base-url", "http://localhost:8080", "server base URL")
		cowsPath         = flag.String("cows", "", "cows CSV (id,name,birthdate)")
		sensorsPath      = flag.String("sensors", "", "sensors CSV (id,unit)")
		measurementsPath = flag.String("measurements", "", "measurements CSV (sensor_id,cow_id,timestamp,value)")
	)
	flag.Parse()

	baseLogger := logger.Must(logger.New(os.Getenv("LOG_LEVEL")))
	defer func() {
		_ = baseLogger.Sync()
	}()

	records, err := loadRecords(*cowsPath, *sensorsPath, *measurementsPath)
	if err != nil {
		baseLogger.Fatal("failed to load fixtures", zap.Error(err))
	}
	if len(records.Cows)+len(records.Sensors)+len(records.Measurements) == 0 {
		baseLogger.Fatal("nothing to replay, pass at least one of -cows, -sensors, -measurements")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	replayer := seed.NewReplayer(*baseURL, baseLogger.Named("seeder"))
	stats, err := replayer.Run(ctx, records)
	if err != nil {
		baseLogger.Fatal("replay aborted", zap.Error(err))
	}

	baseLogger.Info("replay finished",
		zap.Int("created", stats.Created),
		zap.Int("conflicts", stats.Conflicts),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped))
}

func loadRecords(cowsPath, sensorsPath, measurementsPath string) (seed.Records, error) {
	var records seed.Records

	if cowsPath != "" {
		data, err := os.ReadFile(cowsPath)
		if err != nil {
			return seed.Records{}, err
		}
		if records.Cows, err = seed.ParseCows(data); err != nil {
			return seed.Records{}, fmt.Errorf("parse %s: %w", cowsPath, err)
		}
	}

	if sensorsPath != "" {
		data, err := os.ReadFile(sensorsPath)
		if err != nil {
			return seed.Records{}, err
		}
		if records.Sensors, err = seed.ParseSensors(data); err != nil {
			return seed.Records{}, fmt.Errorf("parse %s: %w", sensorsPath, err)
		}
	}

	if measurementsPath != "" {
		data, err := os.ReadFile(measurementsPath)
		if err != nil {
			return seed.Records{}, err
		}
		if records.Measurements, records.Skipped, err = seed.ParseMeasurements(data); err != nil {
			return seed.Records{}, fmt.Errorf("parse %s: %w", measurementsPath, err)
		}
	}

	return records, nil
}
