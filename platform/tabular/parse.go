package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// excelEpoch is the zero date of Excel serial numbers, shifted two days to
// absorb the 1900 leap-year bug that every spreadsheet tool reproduces.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"01-02-06 15:04",
	"1/2/06 15:04",
}

// ParseDecimal parses a monetary or numeric cell. Currency symbols, thousands
// separators and surrounding whitespace are tolerated because spend sheets
// arrive formatted for humans.
func ParseDecimal(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "£")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimPrefix(cleaned, "€")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty numeric cell")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// ParseExcelDateTime parses a cell that may hold an Excel serial number or a
// formatted date/time string.
func ParseExcelDateTime(s string) (time.Time, error) {
	cell := strings.TrimSpace(s)
	if cell == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	// Serial numbers: days since the Excel epoch, fraction is time of day.
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		days := int(serial)
		frac := serial - float64(days)
		t := excelEpoch.AddDate(0, 0, days)
		return t.Add(time.Duration(frac * 24 * float64(time.Hour))), nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseExcelDate parses a date cell and truncates any time-of-day part.
func ParseExcelDate(s string) (time.Time, error) {
	t, err := ParseExcelDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
