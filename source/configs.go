package source

import "time"

const (
	KindSupabase = "supabase"
	KindLocal    = "local"
)

// Config selects and configures the Source used by the monitor.
type Config struct {
	// Kind is "supabase" or "local".
	Kind string `env:"MONITOR_SOURCE" envDefault:"supabase"`

	Supabase SupabaseConfig
}

// SupabaseConfig addresses a project's privileged metrics endpoint.
type SupabaseConfig struct {
	// Project is the project reference, the subdomain of <ref>.supabase.co.
	Project string `env:"SUPABASE_PROJECT"`

	// JWT is the service_role key used as the basic auth password.
	JWT string `env:"SUPABASE_JWT"`

	// BaseURL overrides https://<Project>.supabase.co, mostly for tests.
	BaseURL string `env:"SUPABASE_BASE_URL"`

	Timeout time.Duration `env:"SUPABASE_TIMEOUT" envDefault:"10s"`
}
