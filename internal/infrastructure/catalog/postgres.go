package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

const (
	postgresConnectAttempts = 10
	postgresConnectDelay    = 2 * time.Second
)

// OpenPostgres opens the catalog database, retrying while it comes up.
func OpenPostgres(dsn string) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= postgresConnectAttempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.Ping(); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		time.Sleep(postgresConnectDelay)
	}
	return nil, fmt.Errorf("postgres not reachable after %d attempts: %w", postgresConnectAttempts, lastErr)
}

// LoadPostgres reads devices and plans from the catalog tables. The
// feature columns hold the same ';'-joined lists as the CSV files.
func LoadPostgres(db *sql.DB) ([]entity.Device, []entity.Plan, error) {
	devices, err := loadDeviceRows(db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load devices: %w", err)
	}
	plans, err := loadPlanRows(db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plans: %w", err)
	}
	return devices, plans, nil
}

func loadDeviceRows(db *sql.DB) ([]entity.Device, error) {
	rows, err := db.Query(`SELECT id, name, brand, COALESCE(color, ''), COALESCE(storage, ''), price, COALESCE(image, ''), COALESCE(features, '') FROM devices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []entity.Device
	for rows.Next() {
		var device entity.Device
		var features string
		if err := rows.Scan(&device.ID, &device.Name, &device.Brand, &device.Color, &device.Storage, &device.Price, &device.Image, &features); err != nil {
			return nil, err
		}
		device.Features = SplitFeatures(features)
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

func loadPlanRows(db *sql.DB) ([]entity.Plan, error) {
	rows, err := db.Query(`SELECT id, name, type, price, COALESCE(data_allowance, ''), COALESCE(features, '') FROM plans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []entity.Plan
	for rows.Next() {
		var plan entity.Plan
		var features string
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Type, &plan.Price, &plan.Data, &features); err != nil {
			return nil, err
		}
		plan.Features = SplitFeatures(features)
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
