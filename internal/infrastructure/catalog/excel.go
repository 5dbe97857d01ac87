package catalog

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// Sheet names expected in an .xlsx price list.
const (
	devicesSheet = "Devices"
	plansSheet   = "Plans"
)

// LoadExcel reads devices and plans from an .xlsx price sheet. Column
// layout matches the CSV files: a header row followed by one record per
// row. Sheets that are absent are skipped, not an error.
func LoadExcel(path string) ([]entity.Device, []entity.Plan, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	var devices []entity.Device
	if rows, err := f.GetRows(devicesSheet); err == nil {
		devices = devicesFromRows(rows)
	}

	var plans []entity.Plan
	if rows, err := f.GetRows(plansSheet); err == nil {
		plans = plansFromRows(rows)
	}

	return devices, plans, nil
}

func devicesFromRows(rows [][]string) []entity.Device {
	if len(rows) < 2 {
		return nil
	}
	cols := headerIndex(rows[0])

	devices := make([]entity.Device, 0, len(rows)-1)
	for _, row := range rows[1:] {
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
	return devices
}

func plansFromRows(rows [][]string) []entity.Plan {
	if len(rows) < 2 {
		return nil
	}
	cols := headerIndex(rows[0])

	plans := make([]entity.Plan, 0, len(rows)-1)
	for _, row := range rows[1:] {
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
	return plans
}

func headerIndex(header []string) columnIndex {
	cols := columnIndex{}
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	return cols
}

func normalizeHeader(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == ' ' || r == '\t' {
			continue
		}
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
