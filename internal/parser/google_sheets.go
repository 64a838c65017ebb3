package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/dsl"
)

// Onboarding sheet columns:
// Item Name | Category | Price | Description | Production Area | Ingredients | Modifiers
const readRange = "A:G"

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*GoogleSheetsParser, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

// Result is one finished import: decoded drafts plus the rows that were
// quarantined and the modifier-grammar warnings, so the importer can say
// "N definitions were ignored" instead of losing data silently.
type Result struct {
	Items    []domain.OnboardingItem
	Skipped  []domain.SkippedRow
	Warnings []string
}

func (p *GoogleSheetsParser) ParseMenu(ctx context.Context, spreadsheetID, businessID string) (*Result, error) {
	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	result := &Result{}

	// skip header
	for i := 1; i < len(resp.Values); i++ {
		rec, skip := decodeRow(resp.Values[i])
		if skip != "" {
			if skip == reasonBlank {
				continue
			}
			result.Skipped = append(result.Skipped, domain.SkippedRow{Row: i + 1, Reason: skip})
			continue
		}

		groups, warnings := dsl.Decode(rec.modifiers)
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %s", i+1, w))
		}

		result.Items = append(result.Items, domain.OnboardingItem{
			ID:             uuid.NewString(),
			BusinessID:     businessID,
			Category:       rec.category,
			Name:           rec.name,
			Price:          rec.price,
			Description:    rec.description,
			ProductionArea: rec.productionArea,
			Ingredients:    rec.ingredients,
			Modifiers:      groups,
		})
	}

	return result, nil
}

const reasonBlank = "blank"

// rowRecord is the typed decode of one spreadsheet row. Rows that fail
// decode are quarantined with a reason rather than imported with
// defaulted fields.
type rowRecord struct {
	name           string
	category       string
	price          float64
	description    string
	productionArea string
	ingredients    string
	modifiers      string
}

func decodeRow(row []interface{}) (rowRecord, string) {
	cell := func(idx int) string {
		if idx >= len(row) || row[idx] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", row[idx]))
	}

	rec := rowRecord{
		name:           cell(0),
		category:       cell(1),
		description:    cell(3),
		productionArea: cell(4),
		ingredients:    cell(5),
		modifiers:      cell(6),
	}

	blank := true
	for idx := range row {
		if cell(idx) != "" {
			blank = false
			break
		}
	}
	if blank {
		return rowRecord{}, reasonBlank
	}

	if rec.name == "" {
		return rowRecord{}, "missing item name"
	}

	if priceStr := cell(2); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return rowRecord{}, fmt.Sprintf("unparseable price %q", priceStr)
		}
		rec.price = price
	}

	return rec, ""
}
