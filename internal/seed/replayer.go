package seed

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Stats summarizes one replay run.
type Stats struct {
	Created   int
	Conflicts int
	Failed    int
	Skipped   int
}

// Replayer pushes parsed fixtures to a running herd monitor server over its
// public API. Conflict responses are tolerated so a replay can be repeated
// against an already populated server.
type Replayer struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewReplayer(baseURL string, logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Replayer{
		httpClient: restyClient,
		logger:     logger,
	}
}

// Run posts cows first, then sensors, then measurements, so references exist
// by the time the rows that need them arrive.
func (r *Replayer) Run(ctx context.Context, records Records) (Stats, error) {
	stats := Stats{Skipped: records.Skipped}

	for _, cow := range records.Cows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		r.post(ctx, &stats, "/cows", cow)
	}
	for _, sensor := range records.Sensors {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		r.post(ctx, &stats, "/sensors", sensor)
	}
	for _, measurement := range records.Measurements {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		r.post(ctx, &stats, "/measurements", measurement)
	}

	return stats, nil
}

func (r *Replayer) post(ctx context.Context, stats *Stats, path string, body interface{}) {
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		stats.Failed++
		r.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return
	}

	switch {
	case resp.StatusCode() == http.StatusConflict:
		stats.Conflicts++
	case resp.StatusCode() >= http.StatusBadRequest:
		stats.Failed++
		r.logger.Warn("request rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
	default:
		stats.Created++
	}
}
