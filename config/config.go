package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Identity IdentityConfig `yaml:"identity"`
	Amadeus  AmadeusConfig  `yaml:"amadeus"`
	Search   SearchConfig   `yaml:"search"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address  string `yaml:"address"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

// IdentityConfig points at a GoTrue-compatible identity provider. The anon
// key authorizes public calls, the service-role key the admin ones.
type IdentityConfig struct {
	URL            string `yaml:"url"`
	AnonKey        string `yaml:"anon_key"`
	ServiceRoleKey string `yaml:"service_role_key"`
}

type AmadeusConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// Configured reports whether live flight search credentials are present.
// Without them every search is answered from the demo fallback.
func (a AmadeusConfig) Configured() bool {
	return a.APIKey != "" && a.APISecret != ""
}

type SearchConfig struct {
	CacheTTLMinutes         int `yaml:"cache_ttl_minutes"`
	ListingsCacheTTLSeconds int `yaml:"listings_cache_ttl_seconds"`
}

type WorkerConfig struct {
	CacheSweepMinutes int `yaml:"cache_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Secrets never live in the YAML file; the environment wins when set.
func applyEnv(cfg *Config) {
	if v := os.Getenv("IDENTITY_URL"); v != "" {
		cfg.Identity.URL = v
	}
	if v := os.Getenv("IDENTITY_ANON_KEY"); v != "" {
		cfg.Identity.AnonKey = v
	}
	if v := os.Getenv("IDENTITY_SERVICE_ROLE_KEY"); v != "" {
		cfg.Identity.ServiceRoleKey = v
	}
	if v := os.Getenv("AMADEUS_API_KEY"); v != "" {
		cfg.Amadeus.APIKey = v
	}
	if v := os.Getenv("AMADEUS_API_SECRET"); v != "" {
		cfg.Amadeus.APISecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.BasePath == "" {
		cfg.HTTP.BasePath = "/baggage-buddy"
	}
	if cfg.Amadeus.BaseURL == "" {
		cfg.Amadeus.BaseURL = "https://test.api.amadeus.com"
	}
	if cfg.Search.CacheTTLMinutes == 0 {
		cfg.Search.CacheTTLMinutes = 30
	}
	if cfg.Search.ListingsCacheTTLSeconds == 0 {
		cfg.Search.ListingsCacheTTLSeconds = 60
	}
	if cfg.Worker.CacheSweepMinutes == 0 {
		cfg.Worker.CacheSweepMinutes = 10
	}
}
