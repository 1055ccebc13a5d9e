// Package spreadsheet reads the manual CSV activity ledger. The ledger is
// the one provider that records other providers' ids, so its records carry
// the cross-reference hints the change planner checks.
package spreadsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ckdake/fitler/internal/domain"
)

// Ledger column layout. The sheet predates this tool; the order is fixed.
const (
	colDate = iota
	colActivityType
	colLocationName
	colCity
	colState
	colTemperature
	colEquipment
	colDurationHMS
	colDistanceMiles
	colMaxSpeed
	colAvgHeartRate
	colMaxHeartRate
	colCalories
	colMaxElevation
	colElevationGain
	colWithNames
	colAvgCadence
	colStravaID
	colGarminID
	colRideWithGPSID
	colNotes

	columnCount
)

// Ledger is the spreadsheet adapter.
type Ledger struct {
	path string
	home *time.Location
}

// New builds a Ledger reading the CSV at path. Dates in the sheet are
// calendar days in the home timezone; every record is date-only.
func New(path string, home *time.Location) *Ledger {
	return &Ledger{path: path, home: home}
}

// Name implements providers.Adapter.
func (l *Ledger) Name() domain.Provider { return domain.ProviderSpreadsheet }

// FetchMonth reads the whole ledger and returns the month's rows. The
// provider id is the 1-based data row number, stable as long as rows are
// only appended.
func (l *Ledger) FetchMonth(ctx context.Context, month domain.Month) ([]domain.ProviderActivityRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open ledger: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: parse ledger: %w", err)
	}

	var records []domain.ProviderActivityRecord
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, ok := l.parseRow(i, row)
		if !ok {
			continue
		}
		if !rec.Start.IsZero() && !month.Contains(rec.Start, l.home) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *Ledger) parseRow(index int, row []string) (domain.ProviderActivityRecord, bool) {
	if len(row) < columnCount {
		padded := make([]string, columnCount)
		copy(padded, row)
		row = padded
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[colDate]), l.home)
	if err != nil {
		// Rows without a parseable date still reach the engine so they are
		// counted and reported as skipped, not silently dropped here.
		day = time.Time{}
	}

	distance := 0.0
	if raw := strings.TrimSpace(row[colDistanceMiles]); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			distance = parsed
		}
	}

	linked := make(map[domain.Provider]string)
	if id := strings.TrimSpace(row[colStravaID]); id != "" {
		linked[domain.ProviderStrava] = id
	}
	if id := strings.TrimSpace(row[colGarminID]); id != "" {
		// Garmin ids are sometimes pasted as full activity URLs.
		parts := strings.Split(id, "/")
		linked[domain.ProviderGarmin] = parts[len(parts)-1]
	}
	if id := strings.TrimSpace(row[colRideWithGPSID]); id != "" {
		linked[domain.ProviderRideWithGPS] = id
	}

	return domain.ProviderActivityRecord{
		Provider:   domain.ProviderSpreadsheet,
		ProviderID: strconv.Itoa(index),
		Start:      day,
		DateOnly:   true,
		Distance:   distance,
		Name:       strings.TrimSpace(row[colNotes]),
		Equipment:  strings.TrimSpace(row[colEquipment]),
		LinkedIDs:  linked,
	}, true
}
