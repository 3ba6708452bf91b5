package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"alumni-scraper/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	LinkedInUsername string
	LinkedInPassword string
	LinkedInBaseURL  string
	AuthMode         string
	HTTPTimeoutSec   int

	SearchKeywords string
	SearchLimit    int
	RateLimitMs    int

	OutputFile  string
	LogFile     string
	MarkersFile string
	MetricsAddr string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		LinkedInUsername: getEnv("LINKEDIN_USERNAME", ""),
		LinkedInPassword: getEnv("LINKEDIN_PASSWORD", ""),
		LinkedInBaseURL:  getEnv("LINKEDIN_BASE_URL", "https://www.linkedin.com"),
		AuthMode:         strings.ToLower(getEnv("AUTH_MODE", "api")),
		HTTPTimeoutSec:   getEnvInt("HTTP_TIMEOUT_SEC", 30),

		SearchKeywords: getEnv("SEARCH_KEYWORDS", "software engineer"),
		SearchLimit:    getEnvInt("SEARCH_LIMIT", 50),
		RateLimitMs:    getEnvInt("REQUEST_DELAY_MS", 1000),

		OutputFile:  getEnv("OUTPUT_FILE", ""),
		LogFile:     getEnv("LOG_FILE", "scraper.log"),
		MarkersFile: getEnv("MARKERS_FILE", ""),
		MetricsAddr: getEnv("METRICS_ADDR", ""),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "alumni_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// Credentials returns the login pair for the upstream service.
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{Identifier: c.LinkedInUsername, Secret: c.LinkedInPassword}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// markerFile is the YAML shape of MARKERS_FILE:
//
//	markers:
//	  - iit bombay
//	  - iitb
type markerFile struct {
	Markers []string `yaml:"markers"`
}

// LoadMarkers reads additional institution markers from a YAML file.
// An empty path yields no extra markers.
func LoadMarkers(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read markers %q: %w", path, err)
	}
	var mf markerFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("config: parse markers %q: %w", path, err)
	}
	out := make([]string, 0, len(mf.Markers))
	for _, m := range mf.Markers {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
