package config

import (
	"fmt"
	"strings"

	"github.com/aneroid/ergast-f1db-extra/internal/typeconf"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the config,
// e.g. "storage.db.dsn".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether issues contains a SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateConfig performs static checks over cfg. It does not mutate cfg.
func ValidateConfig(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels metrics"})
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		issues = append(issues, Issue{SeverityError, "data_dir", "data_dir must not be empty"})
	}
	if strings.TrimSpace(cfg.Archive) == "" {
		issues = append(issues, Issue{SeverityWarning, "archive", "archive is empty; extract will fail"})
	}
	issues = append(issues, validateLoad(cfg.Load)...)
	issues = append(issues, validateStorage(cfg.Storage)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	return issues
}

func validateLoad(l LoadConfig) []Issue {
	var issues []Issue
	set, err := typeconf.ParseTypeSet(l.TypeSet)
	if err != nil {
		issues = append(issues, Issue{SeverityError, "load.type_set", err.Error()})
	}
	if err == nil && set == typeconf.Off && l.IDIndex {
		issues = append(issues, Issue{SeverityWarning, "load.id_index", "indexing untyped columns keys rows by string identifiers"})
	}
	seen := make(map[string]bool)
	for i, f := range l.Files {
		path := fmt.Sprintf("load.files[%d]", i)
		switch {
		case strings.TrimSpace(f) == "":
			issues = append(issues, Issue{SeverityError, path, "file name must not be empty"})
		case strings.ContainsAny(f, `/\`):
			issues = append(issues, Issue{SeverityError, path, fmt.Sprintf("%q must be a bare file name", f)})
		case seen[f]:
			issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf("%q listed more than once", f)})
		}
		seen[f] = true
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	switch s.Kind {
	case "":
		return nil
	case "sqlite", "postgres", "mssql", "mysql":
	default:
		return append(issues, Issue{SeverityError, "storage.kind", fmt.Sprintf("unknown storage kind %q; want sqlite, postgres, mssql or mysql", s.Kind)})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.dsn", "dsn must not be empty"})
	}
	if s.Kind != "sqlite" && strings.HasPrefix(s.DB.DSN, "file:") {
		issues = append(issues, Issue{SeverityWarning, "storage.db.dsn", "looks like a sqlite DSN"})
	}
	return issues
}

func validateRuntime(r Runtime) []Issue {
	var issues []Issue
	if r.Workers < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.workers", "workers must be >= 0"})
	}
	if r.BatchSize <= 0 {
		issues = append(issues, Issue{SeverityError, "runtime.batch_size", "batch_size must be > 0"})
	} else if r.BatchSize > 50000 {
		issues = append(issues, Issue{SeverityWarning, "runtime.batch_size", "very large batches hold many rows in memory"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
	case "prometheus":
		if m.PushgatewayURL == "" {
			return []Issue{{SeverityError, "metrics.pushgateway_url", "required for the prometheus backend"}}
		}
	case "datadog":
		if m.DatadogAddr == "" {
			return []Issue{{SeverityError, "metrics.datadog_addr", "required for the datadog backend"}}
		}
	default:
		return []Issue{{SeverityWarning, "metrics.backend", fmt.Sprintf("unknown metrics backend %q; metrics are disabled", m.Backend)}}
	}
	return nil
}
