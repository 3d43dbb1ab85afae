package config

import "time"

// ObservabilityConfig sizes the sidecar HTTP server that exposes Prometheus
// metrics and the kubernetes probes. It listens on its own port so the
// business API can be firewalled separately from the scrape target.
type ObservabilityConfig struct {
	Port string `envconfig:"PORT" default:"9090"`

	// Timeout bounds read, write and idle on the probe server.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s" validate:"min=1s"`

	LivenessPath  string `envconfig:"LIVENESS_PATH" default:"/healthz"`
	ReadinessPath string `envconfig:"READINESS_PATH" default:"/readyz"`
	MetricsPath   string `envconfig:"METRICS_PATH" default:"/metrics"`
}

// Validate checks the observability listener settings.
func (o *ObservabilityConfig) Validate() error {
	return validatePort(o.Port, "observability")
}
