package disclosure

import (
	"context"
	"fmt"
	devenv "fulldisclosure-backend/dev/env"
	configlibsql "fulldisclosure-backend/lib/configutil/libsql"
	"fulldisclosure-backend/lib/restyutil"
	"time"
)

const (
	DriverFilesystem = "filesystem"
	DriverSQL        = "sql"
)

type StorageConfig struct {
	// Driver is either "filesystem" or "sql".
	Driver         string              `json:"driver"`
	PagesDir       string              `json:"pages_dir"`
	TimestampsFile string              `json:"timestamps_file"`
	Database       configlibsql.Struct `json:"database"`
}

type FetchConfig struct {
	TimeoutSeconds   int    `json:"timeout_seconds"`
	UserAgent        string `json:"user_agent"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
}

type RefreshConfig struct {
	MaxAgeMinutes int `json:"max_age_minutes"`
}

type Config struct {
	Storage StorageConfig `json:"storage"`
	Fetch   FetchConfig   `json:"fetch"`
	Refresh RefreshConfig `json:"refresh"`
	// URLs overrides the upstream url of a source by id.
	URLs map[string]string `json:"urls"`
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:         DriverFilesystem,
			PagesDir:       "<dev_state>/htmls",
			TimestampsFile: "<dev_state>/last_updated.txt",
			Database:       configlibsql.Struct{File: "<dev_state>/fulldisclosure.db"},
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
		},
		Refresh: RefreshConfig{
			MaxAgeMinutes: int(DefaultMaxAge / time.Minute),
		},
	}
}

// Open builds a Service from config, closer releases the storage backend.
func Open(ctx context.Context, config Config, output restyutil.InstrumentOutput) (service Service, closer func() error, err error) {
	for id := range config.URLs {
		if _, ok := LookupSource(id); !ok {
			return Service{}, nil, fmt.Errorf("url override: %w: %q", ErrUnknownSource, id)
		}
	}

	opts := ServiceOptions{
		Fetcher: NewHttpFetcher(FetcherOptions{
			Timeout:          time.Duration(config.Fetch.TimeoutSeconds) * time.Second,
			UserAgent:        config.Fetch.UserAgent,
			CloudflareBypass: config.Fetch.CloudflareBypass,
			Output:           output,
		}),
		MaxAge: time.Duration(config.Refresh.MaxAgeMinutes) * time.Minute,
		URLs:   config.URLs,
	}

	closer = func() error { return nil }
	switch config.Storage.Driver {
	case DriverFilesystem, "":
		pagesDir, err := devenv.ResolvePath(config.Storage.PagesDir)
		if err != nil {
			return Service{}, nil, fmt.Errorf("resolve pages dir: %w", err)
		}
		timestampsFile, err := devenv.ResolvePath(config.Storage.TimestampsFile)
		if err != nil {
			return Service{}, nil, fmt.Errorf("resolve timestamps file: %w", err)
		}
		opts.Pages = NewFilesystemPageStore(pagesDir)
		opts.Times = NewFileTimestampStore(timestampsFile)
	case DriverSQL:
		db, err := config.Storage.Database.OpenDB()
		if err != nil {
			return Service{}, nil, fmt.Errorf("open database: %w", err)
		}
		store, err := NewSQLStore(ctx, db)
		if err != nil {
			db.Close()
			return Service{}, nil, err
		}
		opts.Pages = store
		opts.Times = store
		closer = db.Close
	default:
		return Service{}, nil, fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	return NewService(opts), closer, nil
}
