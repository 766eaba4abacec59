// Package loader parses the user-supplied purchase-history and watchlist
// files into domain entities. It owns all structural validation: the core
// engine is only ever handed well-formed data.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// Column names match the spreadsheet template the dashboard distributes.
const (
	colPurchaseDate = "Data_Compra"
	colCode         = "Codigo_Ativo"
	colAssetClass   = "Tipo_Ativo"
	colQuantity     = "Quantidade"
	colUnitPrice    = "Preco_Compra_Unitario"
	colFees         = "Corretagem_Taxas"
	colSector       = "Setor"
)

var (
	// ErrEmptyLedger signals a ledger file with a header but no data rows.
	// Callers should render a benign "no positions" state, not abort.
	ErrEmptyLedger = errors.New("ledger file has no data rows")

	// ErrEmptyWatchlist signals a watchlist file with a header but no data rows
	ErrEmptyWatchlist = errors.New("watchlist file has no data rows")
)

// StructuralError reports required columns missing from an input file.
// It aborts processing before any row is converted.
type StructuralError struct {
	File    string
	Missing []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s file is missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

// dateLayouts accepted for Data_Compra, tried in order
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseLedger reads the purchase-history CSV and converts each row into a
// validated domain.Transaction, preserving file order. Instrument codes are
// trimmed; a missing or blank fee column defaults to zero.
func ParseLedger(r io.Reader) ([]domain.Transaction, error) {
	header, records, err := readTable(r, "ledger")
	if err != nil {
		return nil, err
	}

	required := []string{colPurchaseDate, colCode, colAssetClass, colQuantity, colUnitPrice}
	if missing := missingColumns(header, required); len(missing) > 0 {
		return nil, &StructuralError{File: "ledger", Missing: missing}
	}

	if len(records) == 0 {
		return nil, ErrEmptyLedger
	}

	transactions := make([]domain.Transaction, 0, len(records))
	for i, record := range records {
		rowNum := i + 2 // 1-based, after the header row

		tx := domain.Transaction{
			Code:       strings.TrimSpace(field(header, record, colCode)),
			AssetClass: parseAssetClass(field(header, record, colAssetClass)),
			Fees:       decimal.Zero,
		}

		tx.PurchaseDate, err = parseDate(field(header, record, colPurchaseDate))
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", rowNum, err)
		}

		tx.Quantity, err = strconv.ParseInt(strings.TrimSpace(field(header, record, colQuantity)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: invalid quantity %q", rowNum, field(header, record, colQuantity))
		}

		tx.UnitPrice, err = parseDecimal(field(header, record, colUnitPrice))
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: invalid unit price %q", rowNum, field(header, record, colUnitPrice))
		}

		if rawFees := strings.TrimSpace(field(header, record, colFees)); rawFees != "" {
			tx.Fees, err = parseDecimal(rawFees)
			if err != nil {
				return nil, fmt.Errorf("ledger row %d: invalid fees %q", rowNum, rawFees)
			}
		}

		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", rowNum, err)
		}

		transactions = append(transactions, tx)
	}

	return transactions, nil
}

// ParseWatchlist reads the watchlist CSV, preserving file order. The sector
// column is optional.
func ParseWatchlist(r io.Reader) ([]domain.WatchlistEntry, error) {
	header, records, err := readTable(r, "watchlist")
	if err != nil {
		return nil, err
	}

	required := []string{colCode, colAssetClass}
	if missing := missingColumns(header, required); len(missing) > 0 {
		return nil, &StructuralError{File: "watchlist", Missing: missing}
	}

	if len(records) == 0 {
		return nil, ErrEmptyWatchlist
	}

	entries := make([]domain.WatchlistEntry, 0, len(records))
	for i, record := range records {
		entry := domain.WatchlistEntry{
			Code:       strings.TrimSpace(field(header, record, colCode)),
			AssetClass: parseAssetClass(field(header, record, colAssetClass)),
			Sector:     strings.TrimSpace(field(header, record, colSector)),
		}

		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("watchlist row %d: %w", i+2, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// readTable reads the CSV header and data rows, tolerating variable field counts
func readTable(r io.Reader, file string) (map[string]int, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s header: %w", file, err)
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(name)] = i
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s rows: %w", file, err)
	}

	return header, records, nil
}

// missingColumns reports which of the required columns are absent from the header
func missingColumns(header map[string]int, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := header[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// field returns the named column of a record, or "" when the column is absent
// or the record is short.
func field(header map[string]int, record []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseAssetClass maps the spreadsheet's asset-type labels onto the domain
// enum. Unknown labels pass through upper-cased so new classes do not require
// a loader change.
func parseAssetClass(raw string) domain.AssetClass {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FII":
		return domain.AssetClassFII
	case "ACAO", "AÇÃO":
		return domain.AssetClassEquity
	default:
		return domain.AssetClass(strings.ToUpper(strings.TrimSpace(raw)))
	}
}

func parseDate(raw string) (time.Time, error) {
	cleaned := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid purchase date %q", raw)
}

// parseDecimal accepts both dot and comma decimal separators, the latter
// being what Brazilian spreadsheets export.
func parseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return decimal.NewFromString(cleaned)
}
