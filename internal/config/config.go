package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the melodex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds tiered-cache settings.
type CacheConfig struct {
	Enabled       bool `yaml:"enabled"`
	TTLShortSec   int  `yaml:"ttl_short_sec"`
	TTLMediumSec  int  `yaml:"ttl_medium_sec"`
	TTLLongSec    int  `yaml:"ttl_long_sec"`
	LocalEntries  int  `yaml:"local_entries"`
	LocalTTLSec   int  `yaml:"local_ttl_sec"`
	WarmupEnabled bool `yaml:"warmup_enabled"`
}

// FuzzyConfig holds fuzzy-match weights.
type FuzzyConfig struct {
	ExactWeight       float64 `yaml:"exact_weight"`
	PrefixWeight      float64 `yaml:"prefix_weight"`
	ContainsWeight    float64 `yaml:"contains_weight"`
	LevenshteinWeight float64 `yaml:"levenshtein_weight"`
	JaroWinklerWeight float64 `yaml:"jaro_winkler_weight"`
	NGramWeight       float64 `yaml:"ngram_weight"`
	NGramSize         int     `yaml:"ngram_size"`
	MinScore          float64 `yaml:"min_score"`
}

// RankingConfig holds relevance-ranking weights.
type RankingConfig struct {
	ExactWeight          float64 `yaml:"exact_weight"`
	PrefixWeight         float64 `yaml:"prefix_weight"`
	ContainsWeight       float64 `yaml:"contains_weight"`
	WordBoundaryWeight   float64 `yaml:"word_boundary_weight"`
	LengthProximity      float64 `yaml:"length_proximity"`
	PopularityNormalizer float64 `yaml:"popularity_normalizer"`
	PopularityCap        float64 `yaml:"popularity_cap"`
	PreferredGenreBoost  float64 `yaml:"preferred_genre_boost"`
	ExcludedGenrePenalty float64 `yaml:"excluded_genre_penalty"`
	MultiFieldBonus      float64 `yaml:"multi_field_bonus"`
}

// TypoConfig holds typo-corrector bounds.
type TypoConfig struct {
	EditThreshold int `yaml:"edit_threshold"`
	SampleCap     int `yaml:"sample_cap"`
}

// SearchConfig holds search engine settings.
type SearchConfig struct {
	MaxCandidatesPerKind int           `yaml:"max_candidates_per_kind"`
	RetrievalBudgetMs    int           `yaml:"retrieval_budget_ms"`
	MaxSuggestions       int           `yaml:"max_suggestions"`
	TrendingTerms        int           `yaml:"trending_terms"`
	HistoryLimit         int           `yaml:"history_limit"`
	FuzzyRelevanceWeight float64       `yaml:"fuzzy_relevance_weight"`
	Fuzzy                FuzzyConfig   `yaml:"fuzzy"`
	Ranking              RankingConfig `yaml:"ranking"`
	Typo                 TypoConfig    `yaml:"typo"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.TTLShortSec <= 0 {
		c.Cache.TTLShortSec = 60
	}
	if c.Cache.TTLMediumSec <= 0 {
		c.Cache.TTLMediumSec = 300
	}
	if c.Cache.TTLLongSec <= 0 {
		c.Cache.TTLLongSec = 3600
	}
	if c.Cache.LocalEntries <= 0 {
		c.Cache.LocalEntries = 2048
	}
	if c.Cache.LocalTTLSec <= 0 {
		c.Cache.LocalTTLSec = 60
	}
	if c.Search.MaxCandidatesPerKind <= 0 {
		c.Search.MaxCandidatesPerKind = 50
	}
	if c.Search.RetrievalBudgetMs <= 0 {
		c.Search.RetrievalBudgetMs = 800
	}
	if c.Search.MaxSuggestions <= 0 {
		c.Search.MaxSuggestions = 5
	}
	if c.Search.TrendingTerms <= 0 {
		c.Search.TrendingTerms = 10
	}
	if c.Search.HistoryLimit <= 0 {
		c.Search.HistoryLimit = 50
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	f := c.Search.Fuzzy
	if f.MinScore < 0 || f.MinScore > 1 {
		return fmt.Errorf("search.fuzzy.min_score must be between 0 and 1, got %g", f.MinScore)
	}
	if w := c.Search.FuzzyRelevanceWeight; w < 0 || w > 1 {
		return fmt.Errorf("search.fuzzy_relevance_weight must be between 0 and 1, got %g", w)
	}
	r := c.Search.Ranking
	if r.ExcludedGenrePenalty != 0 && r.PreferredGenreBoost != 0 &&
		r.ExcludedGenrePenalty <= r.PreferredGenreBoost {
		return fmt.Errorf(
			"search.ranking.excluded_genre_penalty (%g) must exceed preferred_genre_boost (%g)",
			r.ExcludedGenrePenalty, r.PreferredGenreBoost,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
