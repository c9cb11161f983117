package profile

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// EmbeddingDimensions is the fixed dimension of shot embeddings.
// Must match the vector(768) column and the ivfflat index in the schema.
const EmbeddingDimensions = 768

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// DSN points to the PostgreSQL database
	DSN string
	// Driver is the database driver. Only "postgres" is supported:
	// fuzzy tag search needs pg_trgm and vector search needs pgvector.
	Driver string
	// Version is the current version of server
	Version string

	// Embedder configuration
	EmbedderProvider string // SHOTSTASH_EMBEDDER_PROVIDER: disabled, fixed, openai
	EmbedderAPIKey   string // SHOTSTASH_EMBEDDER_API_KEY
	EmbedderBaseURL  string // SHOTSTASH_EMBEDDER_BASE_URL (default: https://api.openai.com/v1)
	EmbedderModel    string // SHOTSTASH_EMBEDDER_MODEL (default: text-embedding-3-small)

	// BackfillIntervalSec is how often the embedding backfill runner scans
	// for shots without embeddings. 0 disables the runner.
	BackfillIntervalSec int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsEmbedderEnabled returns true if a usable embedder variant is configured.
func (p *Profile) IsEmbedderEnabled() bool {
	switch p.EmbedderProvider {
	case "fixed":
		return true
	case "openai":
		return p.EmbedderAPIKey != ""
	default:
		return false
	}
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from SHOTSTASH_* environment variables.
// Values already set (e.g. from flags) are kept.
func (p *Profile) FromEnv() {
	if p.DSN == "" {
		p.DSN = os.Getenv("SHOTSTASH_DSN")
	}
	if p.EmbedderProvider == "" {
		p.EmbedderProvider = getEnvOrDefault("SHOTSTASH_EMBEDDER_PROVIDER", "disabled")
	}
	if p.EmbedderAPIKey == "" {
		p.EmbedderAPIKey = os.Getenv("SHOTSTASH_EMBEDDER_API_KEY")
	}
	if p.EmbedderBaseURL == "" {
		p.EmbedderBaseURL = getEnvOrDefault("SHOTSTASH_EMBEDDER_BASE_URL", "https://api.openai.com/v1")
	}
	if p.EmbedderModel == "" {
		p.EmbedderModel = getEnvOrDefault("SHOTSTASH_EMBEDDER_MODEL", "text-embedding-3-small")
	}
	if p.BackfillIntervalSec == 0 {
		if v := os.Getenv("SHOTSTASH_BACKFILL_INTERVAL_SEC"); v != "" {
			if sec, err := strconv.Atoi(v); err == nil {
				p.BackfillIntervalSec = sec
			}
		}
	}
}

// Validate normalizes the profile and rejects configurations the server
// cannot run with.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Driver == "" {
		p.Driver = "postgres"
	}
	if p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q: only postgres is supported", p.Driver)
	}
	if p.DSN == "" {
		return errors.New("dsn is required")
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	switch p.EmbedderProvider {
	case "", "disabled", "fixed", "openai":
	default:
		return errors.Errorf("unsupported embedder provider %q", p.EmbedderProvider)
	}
	return nil
}
