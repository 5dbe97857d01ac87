// Package catalog loads the read-only device and plan reference data
// from CSV files, Excel price sheets or a Postgres database.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// LoadDevicesCSV reads the device catalog. A missing file is not an
// error: the shop simply runs with an empty catalog.
func LoadDevicesCSV(path string) ([]entity.Device, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open devices csv: %w", err)
	}
	defer file.Close()

	return parseDevices(file)
}

// LoadPlansCSV reads the plan catalog with the same missing-file rule.
func LoadPlansCSV(path string) ([]entity.Plan, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open plans csv: %w", err)
	}
	defer file.Close()

	return parsePlans(file)
}

func parseDevices(r io.Reader) ([]entity.Device, error) {
	rows, cols, err := readTable(r)
	if err != nil {
		return nil, err
	}

	devices := make([]entity.Device, 0, len(rows))
	for _, row := range rows {
		device := entity.Device{
			ID:       cols.get(row, "id"),
			Name:     cols.get(row, "name"),
			Brand:    cols.get(row, "brand"),
			Color:    cols.get(row, "color"),
			Storage:  cols.get(row, "storage"),
			Image:    cols.get(row, "image"),
			Price:    parsePrice(cols.get(row, "price")),
			Features: SplitFeatures(cols.get(row, "features")),
		}
		if device.ID == "" && device.Name == "" {
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func parsePlans(r io.Reader) ([]entity.Plan, error) {
	rows, cols, err := readTable(r)
	if err != nil {
		return nil, err
	}

	plans := make([]entity.Plan, 0, len(rows))
	for _, row := range rows {
		plan := entity.Plan{
			ID:       cols.get(row, "id"),
			Name:     cols.get(row, "name"),
			Type:     cols.get(row, "type"),
			Data:     cols.get(row, "data"),
			Price:    parsePrice(cols.get(row, "price")),
			Features: SplitFeatures(cols.get(row, "features")),
		}
		if plan.ID == "" && plan.Name == "" {
			continue
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// columnIndex maps lower-cased header names to column positions.
type columnIndex map[string]int

func (c columnIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func readTable(r io.Reader) ([][]string, columnIndex, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, columnIndex{}, nil
	}

	cols := columnIndex{}
	for i, header := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(header))] = i
	}
	return records[1:], cols, nil
}

// SplitFeatures splits the externally ';'-joined feature list into tags.
// An empty or missing value yields an empty list, never an error.
func SplitFeatures(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ";")
	features := make([]string, 0, len(parts))
	for _, part := range parts {
		if f := strings.TrimSpace(part); f != "" {
			features = append(features, f)
		}
	}
	return features
}

func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "€"))
	if raw == "" {
		return 0
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return price
}
