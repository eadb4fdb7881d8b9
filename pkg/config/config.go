package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret        = "your-secret-key-change-in-production"
	defaultJWTRefreshSecret = "your-refresh-secret-key-change-in-production"
)

type Config struct {
	Port string
	Env  string

	DatabaseURL string
	RedisURL    string

	JWTSecret         string
	JWTRefreshSecret  string
	JWTAccessExpiry   time.Duration
	JWTRefreshExpiry  time.Duration
	TokenDenylist     bool
	PasswordHasher    string
	AllowRoleSignup   bool
	CORSAllowedOrigin []string

	PistonURL              string
	PistonRegistryTimeout  time.Duration
	PistonExecuteTimeout   time.Duration
	RuntimeCacheTTL        time.Duration
	RuntimeRefreshInterval time.Duration

	CollabRequireAuth bool

	RAGBaseURL     string
	AIProvider     string
	OpenAIAPIKey   string
	OpenAIModel    string
	GeminiApiKey   string
	OllamaBaseURL  string
	OllamaModel    string
	ChromaAPIKey   string
	ChromaTenant   string
	ChromaDatabase string
	ChatTimeout    time.Duration
	IndexWorkers   int

	StaticDir string

	OTELEndpoint string
	OTELStdout   bool
}

// Load reads configuration from the environment, falling back to a .env file
// and then to defaults. Malformed durations, numbers and booleans are errors.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	p := &parser{}
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		JWTRefreshSecret:  getEnv("JWT_REFRESH_SECRET", defaultJWTRefreshSecret),
		JWTAccessExpiry:   p.duration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry:  p.duration("JWT_REFRESH_EXPIRY", 168*time.Hour), // 7 days
		TokenDenylist:     p.bool("TOKEN_DENYLIST", false),
		PasswordHasher:    getEnv("PASSWORD_HASHER", "bcrypt"),
		AllowRoleSignup:   p.bool("ALLOW_ROLE_SIGNUP", false),
		CORSAllowedOrigin: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://syncode-frontend-ga97.vercel.app")),

		PistonURL:              strings.TrimRight(getEnv("PISTON_URL", "https://emkc.org/api/v2/piston"), "/"),
		PistonRegistryTimeout:  p.duration("PISTON_REGISTRY_TIMEOUT", 10*time.Second),
		PistonExecuteTimeout:   p.duration("PISTON_EXECUTE_TIMEOUT", 30*time.Second),
		RuntimeCacheTTL:        p.duration("RUNTIME_CACHE_TTL", 5*time.Minute),
		RuntimeRefreshInterval: p.duration("RUNTIME_REFRESH_INTERVAL", 0),

		CollabRequireAuth: p.bool("COLLAB_REQUIRE_AUTH", false),

		RAGBaseURL:     strings.TrimRight(getEnv("RAG_BASE_URL", ""), "/"),
		AIProvider:     getEnv("AI_PROVIDER", "auto"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4"),
		GeminiApiKey:   getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3"),
		ChromaAPIKey:   getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:   getEnv("CHROMA_TENANT", ""),
		ChromaDatabase: getEnv("CHROMA_DATABASE", ""),
		ChatTimeout:    p.duration("CHAT_TIMEOUT", 60*time.Second),
		IndexWorkers:   p.int("INDEX_WORKERS", 2),

		StaticDir: getEnv("STATIC_DIR", "build"),

		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELStdout:   p.bool("OTEL_STDOUT", false),
	}

	if err := p.err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings that would make tokens forgeable or ambiguous.
func (c *Config) Validate() error {
	if c.JWTSecret == "" || c.JWTRefreshSecret == "" {
		return errors.New("config: JWT_SECRET and JWT_REFRESH_SECRET must not be empty")
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return errors.New("config: JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.JWTAccessExpiry <= 0 || c.JWTRefreshExpiry <= 0 {
		return errors.New("config: token expiries must be positive")
	}
	if c.IsProduction() && (c.JWTSecret == defaultJWTSecret || c.JWTRefreshSecret == defaultJWTRefreshSecret) {
		return errors.New("config: default JWT secrets are not allowed in production")
	}
	switch c.PasswordHasher {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("config: unknown PASSWORD_HASHER %q", c.PasswordHasher)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser collects conversion errors so Load can report them together.
type parser struct {
	errs []error
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}

func (p *parser) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return b
}

func (p *parser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) err() error {
	return errors.Join(p.errs...)
}
