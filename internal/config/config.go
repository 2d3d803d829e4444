package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Upload      UploadConfig
	// PublicBaseURL, when set, replaces the request scheme and host in image URLs.
	PublicBaseURL string
	AllowOrigins  []string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// UploadConfig holds image upload limits and location
type UploadConfig struct {
	Dir               string
	MaxBytes          int64
	AllowedExtensions []string
}

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_USERNAME", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "chat")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_MB", "100")
	v.SetDefault("ALLOWED_IMAGE_EXTENSIONS", ".jpg,.jpeg,.png,.gif,.bmp,.webp")
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		Username: v.GetString("DB_USERNAME"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		DSN:      v.GetString("DB_DSN"),
	}
	if err := dbConfig.buildDSN(); err != nil {
		return nil, err
	}

	maxUploadMB, err := parsePositiveInt(v.GetString("MAX_UPLOAD_MB"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	extensions := splitList(v.GetString("ALLOWED_IMAGE_EXTENSIONS"))
	for i, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[i] = ext
	}
	if len(extensions) == 0 {
		return nil, fmt.Errorf("ALLOWED_IMAGE_EXTENSIONS must list at least one extension")
	}

	environment := v.GetString("ENV")
	logLevel := strings.ToLower(v.GetString("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
		if environment == "development" {
			logLevel = "debug"
		}
	}

	return &Config{
		Port:        v.GetString("PORT"),
		Environment: environment,
		LogLevel:    logLevel,
		Database:    dbConfig,
		Upload: UploadConfig{
			Dir:               v.GetString("UPLOAD_DIR"),
			MaxBytes:          int64(maxUploadMB) * 1024 * 1024,
			AllowedExtensions: extensions,
		},
		PublicBaseURL: strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		AllowOrigins:  splitList(v.GetString("CORS_ALLOW_ORIGINS")),
	}, nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowAllOrigins reports whether the CORS policy is fully permissive.
func (c *Config) AllowAllOrigins() bool {
	for _, o := range c.AllowOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.AllowOrigins) == 0
}

func (d *DatabaseConfig) buildDSN() error {
	if d.DSN != "" {
		return nil
	}
	switch d.Driver {
	case DriverSQLite:
		d.DSN = "chat.db?_pragma=foreign_keys(1)"
	case DriverMySQL:
		port := d.Port
		if port == "" {
			port = "3306"
		}
		d.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.Username, d.Password, d.Host, port, d.Name)
	case DriverPostgres:
		port := d.Port
		if port == "" {
			port = "5432"
		}
		d.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			d.Host, d.Username, d.Password, d.Name, port)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
	return nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
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
