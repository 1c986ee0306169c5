package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"weather-dashboard-go/internal/types"
)

// ReadWorkbook loads forecast rows from the first sheet of an xlsx file.
// Columns are detected by header heuristics; temperatures are taken as
// Celsius. Rows without a date or with non-numeric temperatures are skipped.
func ReadWorkbook(r io.Reader) ([]types.Forecast, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	dateIdx, maxIdx, minIdx, condIdx := -1, -1, -1, -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "date") || l == "day":
			if dateIdx == -1 {
				dateIdx = i
			}
		case strings.Contains(l, "max") || strings.Contains(l, "high"):
			if maxIdx == -1 {
				maxIdx = i
			}
		case strings.Contains(l, "min") || strings.Contains(l, "low"):
			if minIdx == -1 {
				minIdx = i
			}
		case strings.Contains(l, "condition") || strings.Contains(l, "weather") || strings.Contains(l, "text"):
			if condIdx == -1 {
				condIdx = i
			}
		}
	}
	if dateIdx == -1 || maxIdx == -1 || minIdx == -1 {
		return nil, fmt.Errorf("header must name date, max and min columns, got %v", rows[0])
	}

	var out []types.Forecast
	for _, r := range rows[1:] {
		date := cell(r, dateIdx)
		if date == "" {
			continue
		}
		hi, err1 := strconv.ParseFloat(cell(r, maxIdx), 64)
		lo, err2 := strconv.ParseFloat(cell(r, minIdx), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, types.Forecast{
			Date:             date,
			MaxTemp:          hi,
			MinTemp:          lo,
			WeatherCondition: cell(r, condIdx),
		})
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
