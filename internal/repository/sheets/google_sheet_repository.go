package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/herdmon/herdmon/internal/config"
	"github.com/herdmon/herdmon/internal/domain/models"
)

// reportsRange is the tab receiving one summary row per generated report.
const reportsRange = "Reports!A:F"

// Repository defines the export operations supported by the Google Sheets
// adapter.
type Repository interface {
	AppendReportSummary(ctx context.Context, report models.Report) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendReportSummary appends the report's herd summary as one row.
func (r *GoogleSheetRepository) AppendReportSummary(ctx context.Context, report models.Report) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{summaryRow(report)}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, reportsRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report row for %s: %w", report.Date, err)
	}

	r.logger.Debug("report row appended to sheet", zap.String("date", report.Date))
	return nil
}

// summaryRow flattens a report into the column layout of the Reports tab:
// date, cows monitored, flagged cows, herd milk average, herd weight average,
// flag reasons.
func summaryRow(report models.Report) []interface{} {
	return []interface{}{
		report.Date,
		report.Summary.CowsMonitored,
		report.Summary.FlaggedCows,
		sheetNumber(report.Summary.AvgMilkProduction),
		sheetNumber(report.Summary.AvgWeight),
		strings.Join(flagLines(report), "; "),
	}
}

// sheetNumber renders a nullable aggregate; missing data becomes an empty cell.
func sheetNumber(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func flagLines(report models.Report) []string {
	out := make([]string, 0, len(report.PotentiallyIllCows))
	for _, flag := range report.PotentiallyIllCows {
		out = append(out, fmt.Sprintf("%s: %s", flag.ID, flag.Reason))
	}
	return out
}
