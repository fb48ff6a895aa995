package config

import "time"

// Set at build time with -ldflags "-X .../internal/config.ServiceVersion=...".
var (
	ServiceVersion string
	CommitSHA      string
)

const (
	Development = 1 << iota
	Sandbox
	Staging
	Production
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type (
	ServiceConfig struct {
		App       App       `json:"app"`
		Store     Store     `json:"store"`
		Database  Database  `json:"database"`
		Device    Device    `json:"device"`
		Logging   Logging   `json:"logging"`
		Telemetry Telemetry `json:"telemetry"`
	}

	App struct {
		ServiceName    string      `envconfig:"APP_SERVICE_NAME" default:"mobile-devices" json:"service_name"`
		ServiceVersion string      `json:"service_version"`
		CommitSHA      string      `json:"commit_sha"`
		Env            Environment `json:"environment"`
	}

	Environment struct {
		Name string `envconfig:"APP_ENVIRONMENT" default:"development" json:"env"`
	}

	Store struct {
		Driver            string        `envconfig:"STORE_DRIVER" default:"sqlite" json:"driver"`
		Path              string        `envconfig:"STORE_PATH" default:"devices.db" json:"path"`
		MatchPolicy       string        `envconfig:"STORE_MATCH_POLICY" default:"substring" json:"match_policy"`
		ReadFailurePolicy string        `envconfig:"STORE_READ_FAILURE_POLICY" default:"empty" json:"read_failure_policy"`
		BusyTimeout       time.Duration `envconfig:"STORE_BUSY_TIMEOUT" default:"5s" json:"busy_timeout"`
		Breaker           Breaker       `json:"breaker"`
	}

	Breaker struct {
		Enabled          bool          `envconfig:"STORE_BREAKER_ENABLED" default:"true" json:"enabled"`
		HalfOpenProbes   uint          `envconfig:"STORE_BREAKER_HALF_OPEN_PROBES" default:"1" json:"half_open_probes"`
		ResetInterval    time.Duration `envconfig:"STORE_BREAKER_INTERVAL" default:"60s" json:"interval"`
		OpenTimeout      time.Duration `envconfig:"STORE_BREAKER_TIMEOUT" default:"30s" json:"timeout"`
		FailureThreshold uint          `envconfig:"STORE_BREAKER_FAILURE_THRESHOLD" default:"3" json:"failure_threshold"`
	}

	Database struct {
		Host            string        `envconfig:"POSTGRES_HOST" default:"localhost" json:"host"`
		Port            uint          `envconfig:"POSTGRES_PORT" default:"5432" json:"port"`
		Database        string        `envconfig:"POSTGRES_DATABASE" default:"devices" json:"database"`
		Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres" json:"username"`
		Password        string        `envconfig:"POSTGRES_PASSWORD" default:"" json:"password,omitempty"`
		SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable" json:"ssl_mode"`
		MaxConnections  int           `envconfig:"POSTGRES_MAX_CONNECTIONS" default:"4" json:"max_connections"`
		MinConnections  int           `envconfig:"POSTGRES_MIN_CONNECTIONS" default:"1" json:"min_connections"`
		ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		MaxConnLifetime time.Duration `envconfig:"POSTGRES_MAX_CONN_LIFETIME" default:"1h" json:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `envconfig:"POSTGRES_MAX_CONN_IDLE_TIME" default:"30m" json:"max_conn_idle_time"`
	}

	Device struct {
		Identifier string `envconfig:"DEVICE_IDENTIFIER" default:"" json:"identifier,omitempty"`
		Model      string `envconfig:"DEVICE_MODEL" default:"" json:"model,omitempty"`
		IDFile     string `envconfig:"DEVICE_ID_FILE" default:"" json:"id_file"`
	}

	Logging struct {
		Level  string `envconfig:"LOG_LEVEL" default:"warn" json:"level"`
		Format string `envconfig:"LOG_FORMAT" default:"console" json:"format"`
	}

	Telemetry struct {
		Enabled        bool    `envconfig:"OTEL_ENABLED" default:"false" json:"enabled"`
		OTLPEndpoint   string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"" json:"otlp_endpoint"`
		ServiceName    string  `envconfig:"OTEL_SERVICE_NAME" default:"mobile-devices" json:"service_name"`
		ServiceVersion string  `envconfig:"OTEL_SERVICE_VERSION" default:"1.0.0" json:"service_version"`
		Metrics        Metrics `json:"metrics"`
		Traces         Traces  `json:"traces"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"false" json:"enabled"`
	}

	Traces struct {
		Enabled      bool    `envconfig:"TRACES_ENABLED" default:"false" json:"enabled"`
		SamplerRatio float64 `envconfig:"TRACES_SAMPLER_RATIO" default:"1.0" json:"sampler_ratio"`
	}
)

func (c *ServiceConfig) GetEnvironment() int {
	switch c.App.Env.Name {
	case "production", "prod":
		return Production
	case "staging", "stg":
		return Staging
	case "sandbox", "sbx":
		return Sandbox
	default:
		return Development
	}
}

func (c *ServiceConfig) IsProduction() bool {
	return c.GetEnvironment() == Production
}

// TracingEnabled reports whether spans should be exported.
func (c *ServiceConfig) TracingEnabled() bool {
	return c.Telemetry.Enabled && c.Telemetry.Traces.Enabled && c.Telemetry.OTLPEndpoint != ""
}

// MetricsEnabled reports whether command metrics should be exported.
func (c *ServiceConfig) MetricsEnabled() bool {
	return c.Telemetry.Enabled && c.Telemetry.Metrics.Enabled && c.Telemetry.OTLPEndpoint != ""
}
