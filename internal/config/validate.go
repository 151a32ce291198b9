package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

var knownBuiltins = []string{"knowledge", "test", "gitlab", "environment"}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Registry.MaxRetries != nil && *cfg.Registry.MaxRetries < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "registry.maxRetries",
			Message: "must be zero or positive",
		})
	}
	if cfg.Registry.DefaultTimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "registry.defaultTimeoutSeconds",
			Message: "must be zero or positive",
		})
	}
	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.port",
			Message: "must be a valid port number",
		})
	}
	if cfg.Gateway.Bind != "" && cfg.Gateway.Bind != "loopback" && cfg.Gateway.Bind != "lan" {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.bind",
			Message: "must be \"loopback\" or \"lan\"",
		})
	}
	switch cfg.Reporting.Store {
	case "", "sqlite", "none":
	default:
		issues = append(issues, ValidationIssue{
			Path:    "reporting.store",
			Message: "must be \"sqlite\" or \"none\"",
		})
	}
	for _, b := range cfg.Agents.Builtins {
		if !slices.Contains(knownBuiltins, b) {
			issues = append(issues, ValidationIssue{
				Path:    "agents.builtins",
				Message: "unknown builtin agent: " + b,
			})
		}
	}

	return issues
}
