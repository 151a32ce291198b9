package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Registry: RegistryConfig{
			DefaultTimeoutSeconds: 30,
			CacheMaxSize:          100,
			HistoryLimit:          1000,
		},
		Router: RouterConfig{
			MaxAgents:    3,
			HistoryLimit: 1000,
		},
		Gateway: GatewayConfig{
			Port: 18790,
			Bind: "loopback",
		},
		Reporting: ReportingConfig{
			Store: "sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Agents: AgentsConfig{
			Builtins: []string{"knowledge", "test", "gitlab", "environment"},
		},
	}
}

// applyDefaults fills zero values left by an explicit config file.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Registry.DefaultTimeoutSeconds <= 0 {
		cfg.Registry.DefaultTimeoutSeconds = def.Registry.DefaultTimeoutSeconds
	}
	if cfg.Registry.CacheMaxSize <= 0 {
		cfg.Registry.CacheMaxSize = def.Registry.CacheMaxSize
	}
	if cfg.Registry.HistoryLimit <= 0 {
		cfg.Registry.HistoryLimit = def.Registry.HistoryLimit
	}
	if cfg.Router.MaxAgents <= 0 {
		cfg.Router.MaxAgents = def.Router.MaxAgents
	}
	if cfg.Router.HistoryLimit <= 0 {
		cfg.Router.HistoryLimit = def.Router.HistoryLimit
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = def.Gateway.Port
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = def.Gateway.Bind
	}
	if cfg.Reporting.Store == "" {
		cfg.Reporting.Store = def.Reporting.Store
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Agents.Builtins == nil {
		cfg.Agents.Builtins = def.Agents.Builtins
	}
}
