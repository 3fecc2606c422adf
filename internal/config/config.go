// Package config defines the JSON configuration for the f1db tools.
//
// Files are JWCC (JSON with comments and trailing commas) and are decoded over
// Default, so a file only needs the keys it changes:
//
//	{
//	  // where f1db_csv.zip is unpacked
//	  "data_dir": "f1db_csv",
//	  "load":    { "type_set": "extension", "sort": true, "id_index": true },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "file:f1db.sqlite" } },
//	}
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/tailscale/hujson"
)

// Environment variables that override file values.
const (
	EnvDataDir = "F1DB_DATA_DIR"
	EnvArchive = "F1DB_ARCHIVE"
	EnvDSN     = "F1DB_DSN"
	EnvWorkers = "F1DB_WORKERS"
)

var (
	errConfigRead    = errors.New("cannot read config file")
	errConfigInvalid = errors.New("invalid config")
)

// Config is the top-level configuration object.
type Config struct {
	// Job labels metrics and log lines.
	Job string `json:"job"`
	// Archive is the zip file extracted by the extract command.
	Archive string `json:"archive"`
	// DataDir holds the extracted CSV files.
	DataDir string `json:"data_dir"`
	// Metadata optionally points at a catalog CSV replacing the embedded one.
	Metadata string `json:"metadata,omitempty"`

	Load    LoadConfig `json:"load"`
	Storage Storage    `json:"storage"`
	Runtime Runtime    `json:"runtime"`
	Metrics Metrics    `json:"metrics"`
}

// LoadConfig holds the per-file load options applied by the load and export
// commands.
type LoadConfig struct {
	// TypeSet is "off", "regular" or "extension".
	TypeSet     string `json:"type_set"`
	Standardize bool   `json:"standardize"`
	Sort        bool   `json:"sort"`
	IDIndex     bool   `json:"id_index"`
	// Files restricts the files loaded; empty means every catalog file.
	Files []string `json:"files,omitempty"`
}

// Storage selects the export backend.
type Storage struct {
	// Kind is "sqlite", "postgres", "mssql" or "mysql"; empty disables export.
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig carries connection and table settings shared by the backends.
type DBConfig struct {
	DSN string `json:"dsn"`
	// TablePrefix is prepended to the table derived from each file name.
	TablePrefix string `json:"table_prefix,omitempty"`
	// Replace drops existing tables before creating them.
	Replace bool `json:"replace"`
}

// Runtime controls concurrency and batching.
type Runtime struct {
	Workers   int `json:"workers"`
	BatchSize int `json:"batch_size"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "prometheus" or "datadog".
	Backend        string `json:"backend"`
	PushgatewayURL string `json:"pushgateway_url,omitempty"`
	DatadogAddr    string `json:"datadog_addr,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Job:     "f1db",
		Archive: "f1db_csv.zip",
		DataDir: "f1db_csv",
		Load: LoadConfig{
			TypeSet:     "extension",
			Standardize: true,
			Sort:        true,
		},
		Runtime: Runtime{Workers: 4, BatchSize: 1000},
		Metrics: Metrics{Backend: "none"},
	}
}

// Load reads path over Default and applies environment overrides. An empty
// path yields Default with overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", errConfigRead, err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes JWCC data over Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid JSONC: %w", errConfigInvalid, err)
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := lookup(EnvArchive); ok && v != "" {
		cfg.Archive = v
	}
	if v, ok := lookup(EnvDSN); ok && v != "" {
		cfg.Storage.DB.DSN = v
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", errConfigInvalid, EnvWorkers, v, err)
		}
		cfg.Runtime.Workers = n
	}
	return nil
}
