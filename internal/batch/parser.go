package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock/dto"
)

// Expected columns: location_id,item_id,type,quantity,notes
// type is one of in, out, adjustment; for adjustment the quantity column
// holds the absolute target value.

var validTypes = map[string]bool{
	model.MovementTypeIn:         true,
	model.MovementTypeOut:        true,
	model.MovementTypeAdjustment: true,
}

// ParseAdjustments turns an untrusted CSV stream into validated batch
// entries. Parsing is pure: no stock logic runs here. Rows that fail
// validation come back as failed BatchResults so the caller reports
// parse errors and stock errors through one structure.
func ParseAdjustments(r io.Reader) ([]dto.BatchEntry, []dto.BatchResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read import header: %w", err)
	}
	if len(header) < 4 {
		return nil, nil, fmt.Errorf("import header must have at least 4 columns, got %d", len(header))
	}

	var entries []dto.BatchEntry
	var failures []dto.BatchResult
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			failures = append(failures, failed(dto.BatchEntry{Line: line}, err.Error()))
			continue
		}

		entry, err := parseRow(line, record)
		if err != nil {
			failures = append(failures, failed(entry, err.Error()))
			continue
		}
		entries = append(entries, entry)
	}

	return entries, failures, nil
}

func parseRow(line int, record []string) (dto.BatchEntry, error) {
	entry := dto.BatchEntry{Line: line}
	if len(record) < 4 {
		return entry, fmt.Errorf("expected at least 4 columns, got %d", len(record))
	}

	entry.LocationID = strings.TrimSpace(record[0])
	entry.ItemID = strings.TrimSpace(record[1])
	entry.Type = strings.ToLower(strings.TrimSpace(record[2]))
	if len(record) > 4 {
		entry.Notes = strings.TrimSpace(record[4])
	}

	if entry.LocationID == "" {
		return entry, fmt.Errorf("missing location_id")
	}
	if entry.ItemID == "" {
		return entry, fmt.Errorf("missing item_id")
	}
	if !validTypes[entry.Type] {
		return entry, fmt.Errorf("unknown movement type %q", entry.Type)
	}

	qty, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return entry, fmt.Errorf("invalid quantity %q", record[3])
	}
	entry.Quantity = qty

	return entry, nil
}

func failed(entry dto.BatchEntry, reason string) dto.BatchResult {
	return dto.BatchResult{Entry: entry, OK: false, Error: reason}
}
