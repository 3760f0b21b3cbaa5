// Package export serializes activity history for file downloads.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

// Format identifies a supported export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format query parameter, defaulting to CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type to serve the format with.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the file extension for download names.
func (f Format) Extension() string {
	return string(f)
}

var header = []string{"Date", "Description", "Category", "Emission (kg CO2)"}

// Write serializes activities to w in the requested format.
func Write(w io.Writer, format Format, activities []domain.Activity) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, activities)
	case FormatXLSX:
		return writeXLSX(w, activities)
	default:
		return writeCSV(w, activities)
	}
}

func writeCSV(w io.Writer, activities []domain.Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range activities {
		record := []string{
			a.ActivityDate.String(),
			a.Description,
			string(a.Category),
			strconv.FormatFloat(a.EmissionKg, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRow struct {
	Date        domain.Date     `json:"date"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	EmissionKg  float64         `json:"emission_kg"`
}

func writeJSON(w io.Writer, activities []domain.Activity) error {
	rows := make([]jsonRow, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, jsonRow{
			Date:        a.ActivityDate,
			Description: a.Description,
			Category:    a.Category,
			EmissionKg:  a.EmissionKg,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

const sheetName = "Activities"

func writeXLSX(w io.Writer, activities []domain.Activity) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return err
		}
	}

	for i, a := range activities {
		values := []interface{}{a.ActivityDate.String(), a.Description, string(a.Category), a.EmissionKg}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
