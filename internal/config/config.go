package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
	"gopkg.in/yaml.v3"         // For the optional config file
)

// Config holds the application configuration
type Config struct {
	AppPort         string `yaml:"app_port"`          // Application port
	DBUser          string `yaml:"db_user"`           // Database user
	DBPassword      string `yaml:"db_password"`       // Database password
	DBHost          string `yaml:"db_host"`           // Database host
	DBPort          string `yaml:"db_port"`           // Database port
	DBName          string `yaml:"db_name"`           // Database name
	JWTSecret       string `yaml:"jwt_secret"`        // JWT signing key
	AccessTTLMin    int    `yaml:"access_ttl_min"`    // Access token lifetime in minutes
	RefreshTTLHours int    `yaml:"refresh_ttl_hours"` // Refresh token lifetime in hours
	RedisAddr       string `yaml:"redis_addr"`        // Redis server address
	RedisPass       string `yaml:"redis_pass"`        // Redis password
	RedisDB         int    `yaml:"redis_db"`          // Redis database number
	UploadDir       string `yaml:"upload_dir"`        // Directory for uploaded images
	IsProd          bool   `yaml:"is_prod"`           // Is production environment
}

// LoadConfig loads configuration from an optional YAML file pointed to by
// CONFIG_FILE, then overlays environment variables (a .env file is honored).
// Environment values always win over file values.
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	cfg := &Config{
		AccessTTLMin:    60,
		RefreshTTLHours: 24,
		UploadDir:       "./uploads",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(raw, cfg)
		}
	}

	overlayString(&cfg.AppPort, "APP_PORT")
	overlayString(&cfg.DBUser, "DB_USER")
	overlayString(&cfg.DBPassword, "DB_PASSWORD")
	overlayString(&cfg.DBHost, "DB_HOST")
	overlayString(&cfg.DBPort, "DB_PORT")
	overlayString(&cfg.DBName, "DB_NAME")
	overlayString(&cfg.JWTSecret, "JWT_SECRET")
	overlayString(&cfg.RedisAddr, "REDIS_ADDR")
	overlayString(&cfg.RedisPass, "REDIS_PASS")
	overlayString(&cfg.UploadDir, "UPLOAD_DIR")
	overlayInt(&cfg.RedisDB, "REDIS_DB")
	overlayInt(&cfg.AccessTTLMin, "ACCESS_TTL_MIN")
	overlayInt(&cfg.RefreshTTLHours, "REFRESH_TTL_HOURS")
	if v := os.Getenv("IS_PROD"); v != "" {
		cfg.IsProd = v == "true"
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}
	return cfg
}

// DSN builds the MySQL connection string.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=true&loc=Local"
}

func overlayString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
