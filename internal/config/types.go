package config

// Config is the root configuration for switchboard.
type Config struct {
	Registry  RegistryConfig  `yaml:"registry,omitempty"`
	Router    RouterConfig    `yaml:"router,omitempty"`
	Gateway   GatewayConfig   `yaml:"gateway,omitempty"`
	Reporting ReportingConfig `yaml:"reporting,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Agents    AgentsConfig    `yaml:"agents,omitempty"`
}

// RegistryConfig controls consultation execution.
type RegistryConfig struct {
	// EnableCaching toggles the consultation result cache. Defaults to true.
	EnableCaching *bool `yaml:"enableCaching,omitempty"`

	// DefaultTimeoutSeconds bounds a single consultation attempt.
	DefaultTimeoutSeconds int `yaml:"defaultTimeoutSeconds,omitempty"`

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries *int `yaml:"maxRetries,omitempty"`

	// CacheMaxSize bounds the FIFO result cache.
	CacheMaxSize int `yaml:"cacheMaxSize,omitempty"`

	// HistoryLimit bounds the in-memory consultation history.
	HistoryLimit int `yaml:"historyLimit,omitempty"`
}

// CachingEnabled resolves the EnableCaching default.
func (c RegistryConfig) CachingEnabled() bool {
	return c.EnableCaching == nil || *c.EnableCaching
}

// Retries resolves the MaxRetries default.
func (c RegistryConfig) Retries() int {
	if c.MaxRetries == nil {
		return 2
	}
	return *c.MaxRetries
}

// RouterConfig controls intent classification and orchestration.
type RouterConfig struct {
	// MaxAgents caps how many agents one query can be orchestrated across.
	MaxAgents int `yaml:"maxAgents,omitempty"`

	// HistoryLimit bounds the in-memory routing history.
	HistoryLimit int `yaml:"historyLimit,omitempty"`

	// ExtraKeywords adds keywords to the built-in intent table,
	// keyed by intent category.
	ExtraKeywords map[string][]string `yaml:"extraKeywords,omitempty"`
}

// GatewayConfig controls the gateway HTTP/WebSocket server.
type GatewayConfig struct {
	Port int         `yaml:"port,omitempty"`
	Bind string      `yaml:"bind,omitempty"` // "loopback" | "lan"
	Auth GatewayAuth `yaml:"auth,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Token string `yaml:"token,omitempty"` // may reference ${ENV_VAR}
}

// ReportingConfig selects the reporting sink.
type ReportingConfig struct {
	Store string `yaml:"store,omitempty"` // "sqlite" | "none"
	Path  string `yaml:"path,omitempty"`  // sqlite file, defaults under data dir
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}

// AgentsConfig selects which built-in agents are registered.
type AgentsConfig struct {
	// Builtins lists the built-in agents to register. Defaults to all:
	// knowledge, test, gitlab, environment.
	Builtins []string `yaml:"builtins,omitempty"`
}
