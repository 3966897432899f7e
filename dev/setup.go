package main

import (
	"context"
	"fmt"
	"fulldisclosure-backend/services/disclosure"
	"log/slog"
	"os"
)

// CreateEmptyStore creates the sqlite database used by the "sql" storage
// driver with its tables already in place.
func CreateEmptyStore(ctx context.Context) error {
	config := disclosure.DefaultConfig().Storage.Database
	db, err := config.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = disclosure.NewSQLStore(ctx, db)
	if err != nil {
		return err
	}
	fmt.Println("sqlite store ready at", config.File)
	return nil
}

const starterConfig = `{
	listen: ":8000",
	telemetry: {
		otlp: {
			traces: {},
			metrics: {},
		},
	},
	disclosure: {
		storage: {
			// "filesystem" or "sql"
			driver: "filesystem",
			pages_dir: "<dev_state>/htmls",
			timestamps_file: "<dev_state>/last_updated.txt",
			database: {
				file: "<dev_state>/fulldisclosure.db",
			},
		},
		fetch: {
			timeout_seconds: 30,
			cloudflare_bypass: false,
		},
		refresh: {
			max_age_minutes: 1440,
		},
	},
}
`

// WriteStarterConfig writes config.json5 to the repository root unless one exists.
func WriteStarterConfig() error {
	_, err := os.Stat("config.json5")
	if err == nil {
		fmt.Println("config already exists at config.json5")
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	fmt.Println("writing starter config to config.json5")
	return os.WriteFile("config.json5", []byte(starterConfig), 0644)
}

func PrintConfigLocations() {
	slog.Info("config.json5 is shared by disclosure-server and disclosure-cli, put machine specific overrides in config.local.json5 next to it.")
}
