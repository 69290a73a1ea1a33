package telemetry

import (
	"slices"
	"strings"
	"time"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
	"github.com/unkn0wn-root/envdesk/internal/settings"
)

const (
	serviceName    = "envdesk"
	defaultTimeout = 5 * time.Second
)

// Operations are the store operations that open spans.
var Operations = []string{"save", "save_as", "clone", "reload", "check_sync", "ingest", "restore"}

// Config says where store operation spans are exported. An empty Endpoint
// leaves tracing on the global no-op provider.
type Config struct {
	Endpoint string
	Insecure bool
	Headers  map[string]string
	Timeout  time.Duration
	// Only limits export to the listed operations; empty exports all.
	Only    []string
	Version string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

var envKeys = []struct{ env, key string }{
	{"ENVDESK_OTEL_ENDPOINT", "endpoint"},
	{"ENVDESK_OTEL_INSECURE", "insecure"},
	{"ENVDESK_OTEL_HEADERS", "headers"},
	{"ENVDESK_OTEL_TIMEOUT", "timeout"},
	{"ENVDESK_OTEL_OPERATIONS", "operations"},
}

// Load reads ENVDESK_OTEL_* variables. A malformed value is an error and
// the returned config is disabled.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{Timeout: defaultTimeout}
	if getenv == nil {
		return cfg, nil
	}
	pairs := make(map[string]string)
	for _, k := range envKeys {
		if v := strings.TrimSpace(getenv(k.env)); v != "" {
			pairs[k.key] = v
		}
	}
	a := settings.New(
		settings.StringHandler("endpoint", &cfg.Endpoint),
		settings.BoolHandler("insecure", &cfg.Insecure),
		settings.DurationHandler("timeout", &cfg.Timeout),
		headersHandler("headers", &cfg.Headers),
		operationsHandler("operations", &cfg.Only),
	)
	if _, err := a.ApplyAll(pairs); err != nil {
		return Config{Timeout: defaultTimeout}, err
	}
	if cfg.Timeout <= 0 {
		return Config{Timeout: defaultTimeout}, errdef.New(errdef.CodeConfig, "otel timeout must be positive")
	}
	return cfg, nil
}

// headersHandler reads "k=v,k2=v2".
func headersHandler(key string, dst *map[string]string) settings.Handler {
	return settings.Handler{
		Match: settings.ExactMatcher(key),
		Apply: func(_, val string) error {
			var items []string
			for _, item := range strings.Split(val, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			headers, err := settings.ParsePairs(items)
			if err != nil {
				return err
			}
			*dst = headers
			return nil
		},
	}
}

func operationsHandler(key string, dst *[]string) settings.Handler {
	return settings.Handler{
		Match: settings.ExactMatcher(key),
		Apply: func(_, val string) error {
			var ops []string
			for _, op := range strings.Split(val, ",") {
				op = strings.ToLower(strings.TrimSpace(op))
				if op == "" {
					continue
				}
				if !slices.Contains(Operations, op) {
					return errdef.New(errdef.CodeConfig, "unknown operation %q", op)
				}
				ops = append(ops, op)
			}
			*dst = ops
			return nil
		},
	}
}
