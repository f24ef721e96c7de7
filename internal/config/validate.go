// This file adds a lightweight linter/validator for App values. It
// performs static checks over a decoded App and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "store.kind",
// "metrics.prompush.gateway_url"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue in the slice is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of an App. It does not mutate the
// config; callers decide whether to treat warnings as fatal.
func Validate(app App) []Issue {
	var issues []Issue

	if strings.TrimSpace(app.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and log lines will carry the default name",
		})
	}

	issues = append(issues, validateStore(app.Store)...)
	issues = append(issues, validateDownload(app.Store, app.Download)...)
	issues = append(issues, validateServer(app.Server)...)
	issues = append(issues, validateMetrics(app.Metrics)...)

	return issues
}

func validateStore(s Store) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "store.kind",
			Message:  "store.kind must not be empty",
		})
		return issues
	}

	// Unknown kinds are warnings for forward compatibility; the store
	// factory has the final say at startup.
	known := map[string]struct{}{
		"sqlite": {}, "postgres": {}, "mssql": {}, "csvfile": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "store.kind",
			Message:  fmt.Sprintf("unknown store kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	switch s.Kind {
	case "sqlite", "csvfile":
		if strings.TrimSpace(s.Path) == "" && strings.TrimSpace(s.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "store.path",
				Message:  fmt.Sprintf("%s store requires a non-empty path", s.Kind),
			})
		}
	case "postgres", "mssql":
		if strings.TrimSpace(s.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "store.dsn",
				Message:  fmt.Sprintf("%s store requires a non-empty dsn", s.Kind),
			})
		}
	}

	return issues
}

func validateDownload(s Store, d Download) []Issue {
	var issues []Issue

	if d.URL != "" && s.Kind != "sqlite" && s.Kind != "csvfile" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "download.url",
			Message:  "download.url is only used by file-backed stores and will be ignored",
		})
	}
	if d.TimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "download.timeout_seconds",
			Message:  "timeout_seconds must not be negative",
		})
	}
	if d.MaxRetries < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "download.max_retries",
			Message:  "max_retries must not be negative",
		})
	}
	if d.InsecureSkipVerify {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "download.insecure_skip_verify",
			Message:  "TLS verification is disabled for dataset downloads",
		})
	}

	return issues
}

func validateServer(s Server) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Listen) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "server.listen",
			Message:  "server.listen is empty; the default \":8080\" will be used",
		})
	}
	if s.PageSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "server.page_size",
			Message:  "page_size must not be negative",
		})
	}
	if s.ShutdownGraceSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "server.shutdown_grace_seconds",
			Message:  "shutdown_grace_seconds must not be negative",
		})
	}

	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Kind {
	case "", "none":
		// metrics disabled, nothing to check
	case "prompush":
		if strings.TrimSpace(m.Prompush.GatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.prompush.gateway_url",
				Message:  "prompush backend requires a gateway_url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.Datadog.Addr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog.addr",
				Message:  "datadog backend requires an addr",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.kind",
			Message:  fmt.Sprintf("unknown metrics kind %q", m.Kind),
		})
	}

	return issues
}
