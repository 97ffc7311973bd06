package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Storage StorageConfig
	Email   EmailConfig
	Admin   AdminConfig
	JWT     JWTConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type StorageConfig struct {
	// Driver selects the object storage backend: "s3" or "local".
	Driver          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	// PublicBaseURL is the prefix under which stored objects are publicly
	// addressable, e.g. "https://cdn.example.com/sideline".
	PublicBaseURL string
	// LocalDir is the root directory for the "local" driver.
	LocalDir string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
	To           string
}

// AdminConfig is the single admin identity. The password is stored as a
// bcrypt hash, never as a plaintext literal.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

type JWTConfig struct {
	Secret   string
	TTLHours int
}

// Load reads configuration from environment variables with sensible
// defaults for local development. Secrets have no defaults and must be set.
func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 3000)

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "sideline_user")
	viper.SetDefault("DB_NAME", "sideline_db")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("STORAGE_DRIVER", "s3")
	viper.SetDefault("STORAGE_BUCKET", "sideline")
	viper.SetDefault("STORAGE_REGION", "auto")
	viper.SetDefault("STORAGE_LOCAL_DIR", "./data/sideline")

	viper.SetDefault("EMAIL_FROM", "onboarding@resend.dev")

	viper.SetDefault("JWT_TTL_HOURS", 24)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetInt("SERVER_PORT"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Storage: StorageConfig{
			Driver:          viper.GetString("STORAGE_DRIVER"),
			Endpoint:        viper.GetString("STORAGE_ENDPOINT"),
			AccessKeyID:     viper.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:          viper.GetString("STORAGE_BUCKET"),
			Region:          viper.GetString("STORAGE_REGION"),
			PublicBaseURL:   viper.GetString("STORAGE_PUBLIC_BASE_URL"),
			LocalDir:        viper.GetString("STORAGE_LOCAL_DIR"),
		},
		Email: EmailConfig{
			ResendAPIKey: viper.GetString("RESEND_API_KEY"),
			From:         viper.GetString("EMAIL_FROM"),
			To:           viper.GetString("EMAIL_TO"),
		},
		Admin: AdminConfig{
			Email:        viper.GetString("ADMIN_EMAIL"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		JWT: JWTConfig{
			Secret:   viper.GetString("JWT_SECRET"),
			TTLHours: viper.GetInt("JWT_TTL_HOURS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Admin.Email == "" || c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required")
	}
	switch c.Storage.Driver {
	case "s3":
		if c.Storage.Endpoint == "" || c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return fmt.Errorf("STORAGE_ENDPOINT, STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required for the s3 driver")
		}
		if c.Storage.PublicBaseURL == "" {
			return fmt.Errorf("STORAGE_PUBLIC_BASE_URL is required for the s3 driver")
		}
	case "local":
		// LocalDir has a default; public URLs are served by the app itself.
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want s3 or local)", c.Storage.Driver)
	}
	return nil
}

// ConnString returns a pgx-compatible connection string.
func (d DBConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
