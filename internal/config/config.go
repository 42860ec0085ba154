package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"

	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	User            string
	Password        string
	Host            string
	Port            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	Provider            string
	FirebaseProjectID   string
	FirebaseCredentials string
	JWTSecret           string
	AllowRequestedRole  bool
}

type MailConfig struct {
	SendGridAPIKey string
	From           string
}

type Config struct {
	Port            string
	Environment     string
	StoreDriver     string
	Database        DatabaseConfig
	Auth            AuthConfig
	Mail            MailConfig
	FrontendURL     string
	CORSOrigins     []string
	DefaultTeamName string
	InvitationTTL   time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads an optional .env file and then the environment. It fails fast
// on missing or inconsistent values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var missing []string

	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		Environment:     getEnv("APP_ENV", "development"),
		StoreDriver:     getEnv("STORE_DRIVER", StoreMySQL),
		FrontendURL:     strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		DefaultTeamName: getEnv("DEFAULT_TEAM_NAME", "Company Team"),
		Database: DatabaseConfig{
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			Host:            getEnv("DB_HOST", "127.0.0.1"),
			Port:            getEnv("DB_PORT", "3306"),
			Name:            os.Getenv("DB_NAME"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Auth: AuthConfig{
			Provider:            getEnv("AUTH_PROVIDER", AuthFirebase),
			FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
			FirebaseCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			JWTSecret:           os.Getenv("JWT_SECRET"),
			AllowRequestedRole:  getEnvBool("ALLOW_REQUESTED_ROLE", false),
		},
		Mail: MailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			From:           getEnv("MAIL_FROM", "no-reply@teamhub.local"),
		},
	}

	switch cfg.Environment {
	case "development", "test", "production":
	default:
		return nil, fmt.Errorf("invalid APP_ENV value %q: must be development, test, or production", cfg.Environment)
	}

	switch cfg.StoreDriver {
	case StoreMySQL:
		if cfg.Database.User == "" {
			missing = append(missing, "DB_USER")
		}
		if cfg.Database.Name == "" {
			missing = append(missing, "DB_NAME")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER value %q: must be mysql or memory", cfg.StoreDriver)
	}

	switch cfg.Auth.Provider {
	case AuthFirebase:
		if cfg.Auth.FirebaseProjectID == "" {
			missing = append(missing, "FIREBASE_PROJECT_ID")
		}
	case AuthJWT:
		if cfg.Auth.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
	default:
		return nil, fmt.Errorf("invalid AUTH_PROVIDER value %q: must be firebase or jwt", cfg.Auth.Provider)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	ttl, err := time.ParseDuration(getEnv("INVITATION_TTL", "168h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid INVITATION_TTL: must be a positive duration")
	}
	cfg.InvitationTTL = ttl

	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", cfg.FrontendURL))

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
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
