// Package google exports debt report rows to a Google Sheets document using
// service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ports "github.com/BarthGve/budget-wizard-fr-sub000/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportSheet   string
}

var _ ports.ReportWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from the environment.
// Required: GOOGLE_SPREADSHEET_ID plus one of GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_REPORT_SHEET (default "Dettes").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	reportSheet := strings.TrimSpace(os.Getenv("GOOGLE_REPORT_SHEET"))
	if reportSheet == "" {
		reportSheet = "Dettes"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportSheet:   reportSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendDebtRow appends one report row below the existing data.
func (c *Client) AppendDebtRow(ctx context.Context, row ports.ReportRow) error {
	values := &gsheet.ValueRange{
		Values: [][]any{{
			row.TakenAt.Format("2006-01-02 15:04"),
			row.View,
			row.TotalMonthly.Euros(),
			row.TotalDebt.Euros(),
			row.AmountPaid.Euros(),
			row.ActiveCredits,
		}},
	}

	rng := fmt.Sprintf("%s!A:F", c.reportSheet)
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append debt row: %w", err)
	}

	slog.InfoContext(ctx, "Appended debt report row",
		"sheet", c.reportSheet,
		"view", row.View,
		"total_debt_cents", row.TotalDebt.Cents)
	return nil
}
